package snapshot

import (
	"bytes"
	"testing"

	"github.com/wenqig/storyboard/backend/internal/model/show"
)

func sampleSession(t *testing.T) *show.Session {
	t.Helper()

	sess, err := show.Begin("how do tides work?", show.Settings{
		Theme:       "storybook",
		AspectRatio: "4:3",
		ColorStyle:  "pastel",
	})
	if err != nil {
		t.Fatalf("Begin err: %v", err)
	}

	slides := []show.Slide{
		{Caption: "<p>the moon pulls the sea</p>", Image: []byte{1, 2, 3}, MIMEType: "image/png"},
		{Caption: "<p>twice a day</p>", Image: []byte{4, 5}, MIMEType: "image/jpeg"},
	}
	for _, s := range slides {
		if err := sess.AppendAnswer(s); err != nil {
			t.Fatalf("AppendAnswer err: %v", err)
		}
	}
	return sess
}

func TestRoundTrip(t *testing.T) {
	sess := sampleSession(t)

	rec, err := Encode(sess)
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}
	got, err := Decode(rec)
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}

	if got.Question != sess.Question {
		t.Fatalf("question mismatch: %q vs %q", got.Question, sess.Question)
	}
	if got.Settings != sess.Settings {
		t.Fatalf("settings mismatch: %+v vs %+v", got.Settings, sess.Settings)
	}
	if len(got.Slides) != len(sess.Slides) {
		t.Fatalf("slide count mismatch: %d vs %d", len(got.Slides), len(sess.Slides))
	}
	for i := range sess.Slides {
		if got.Slides[i].Caption != sess.Slides[i].Caption {
			t.Fatalf("slide %d caption mismatch", i)
		}
		if !bytes.Equal(got.Slides[i].Image, sess.Slides[i].Image) {
			t.Fatalf("slide %d image bytes mismatch", i)
		}
	}
}

func TestDecodeCopiesImageBytes(t *testing.T) {
	sess := sampleSession(t)

	rec, err := Encode(sess)
	if err != nil {
		t.Fatalf("Encode err: %v", err)
	}
	got, err := Decode(rec)
	if err != nil {
		t.Fatalf("Decode err: %v", err)
	}

	rec.Slides[1].Image[0] = 99
	if got.Slides[1].Image[0] == 99 {
		t.Fatal("decoded slide aliases the record's image buffer")
	}
}

func TestEncodeNilSession(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Fatal("expected error encoding nil session")
	}
}

func TestDecodeCorruptRecords(t *testing.T) {
	cases := map[string]*Record{
		"nil record":     nil,
		"no slides":      {Question: "q"},
		"empty question": {Slides: []SlideRecord{{IsQuestion: true, Text: "q"}}},
		"first not question": {
			Question: "q",
			Slides:   []SlideRecord{{Text: "answer", Image: []byte{1}}},
		},
		"question slide in the middle": {
			Question: "q",
			Slides: []SlideRecord{
				{IsQuestion: true, Text: "q"},
				{IsQuestion: true, Text: "q again"},
			},
		},
		"empty answer slide": {
			Question: "q",
			Slides: []SlideRecord{
				{IsQuestion: true, Text: "q"},
				{},
			},
		},
	}

	for name, rec := range cases {
		if _, err := Decode(rec); err == nil {
			t.Fatalf("%s: expected decode error", name)
		}
	}
}
