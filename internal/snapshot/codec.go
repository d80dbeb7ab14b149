// Package snapshot converts a slideshow session to and from its durable
// record form.
package snapshot

import (
	"errors"

	"github.com/wenqig/storyboard/backend/internal/model/show"
)

var (
	ErrNilSession = errors.New("cannot encode nil session")
	ErrCorrupt    = errors.New("snapshot record is corrupt")
)

// Record is the durable encoding of a session. Captions are stored as
// already-rendered HTML and images as raw blobs, never data URIs, so restore
// skips both the markup renderer and base64 inflation.
type Record struct {
	Question   string        `json:"question"`
	Theme      string        `json:"theme"`
	Ratio      string        `json:"ratio"`
	ColorStyle string        `json:"colorStyle"`
	Slides     []SlideRecord `json:"slides"`
}

// SlideRecord is one persisted slide.
type SlideRecord struct {
	IsQuestion bool   `json:"isQuestion"`
	Text       string `json:"text"`
	Image      []byte `json:"image,omitempty"`
	MIMEType   string `json:"mimeType,omitempty"`
}

// Encode maps a session to its durable record. Image bytes are copied so the
// record does not alias live slide buffers.
func Encode(s *show.Session) (*Record, error) {
	if s == nil {
		return nil, ErrNilSession
	}

	rec := &Record{
		Question:   s.Question,
		Theme:      s.Settings.Theme,
		Ratio:      s.Settings.AspectRatio,
		ColorStyle: s.Settings.ColorStyle,
		Slides:     make([]SlideRecord, 0, len(s.Slides)),
	}
	for _, slide := range s.Slides {
		rec.Slides = append(rec.Slides, SlideRecord{
			IsQuestion: slide.IsQuestion(),
			Text:       slide.Caption,
			Image:      cloneBytes(slide.Image),
			MIMEType:   slide.MIMEType,
		})
	}
	return rec, nil
}

// Decode reconstructs a session from its record. Stored HTML is assigned
// verbatim: it originated from this app's own prior render, so it is trusted
// as is. Each image gets a fresh byte slice, never a reference from the
// process that wrote the record.
func Decode(rec *Record) (*show.Session, error) {
	if rec == nil || rec.Question == "" || len(rec.Slides) == 0 {
		return nil, ErrCorrupt
	}
	if !rec.Slides[0].IsQuestion {
		return nil, ErrCorrupt
	}

	settings := show.Settings{
		Theme:       rec.Theme,
		AspectRatio: rec.Ratio,
		ColorStyle:  rec.ColorStyle,
	}.Normalize(show.DefaultSettings())

	sess, err := show.Begin(rec.Question, settings)
	if err != nil {
		return nil, ErrCorrupt
	}
	// The stored question caption supersedes the freshly escaped one.
	sess.Slides[0].Caption = rec.Slides[0].Text

	for _, sr := range rec.Slides[1:] {
		if sr.IsQuestion {
			return nil, ErrCorrupt
		}
		slide := show.Slide{
			Role:     show.RoleAnswer,
			Caption:  sr.Text,
			Image:    cloneBytes(sr.Image),
			MIMEType: sr.MIMEType,
		}
		if err := sess.AppendAnswer(slide); err != nil {
			return nil, ErrCorrupt
		}
	}
	return sess, nil
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
