package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/wenqig/storyboard/backend/internal/snapshot"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "storyboard.db"))
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *snapshot.Record {
	return &snapshot.Record{
		Question:   "why is the sky blue?",
		Theme:      "classic",
		Ratio:      "16:9",
		ColorStyle: "vibrant",
		Slides: []snapshot.SlideRecord{
			{IsQuestion: true, Text: "why is the sky blue?"},
			{Text: "<p>light scatters</p>", Image: []byte{0xDE, 0xAD}, MIMEType: "image/png"},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, sampleRecord()); err != nil {
		t.Fatalf("Put err: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored record")
	}
	if got.Question != "why is the sky blue?" || got.Theme != "classic" {
		t.Fatalf("record fields mismatch: %+v", got)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(got.Slides))
	}
	if !got.Slides[0].IsQuestion {
		t.Fatal("first slide should be the question")
	}
	if !bytes.Equal(got.Slides[1].Image, []byte{0xDE, 0xAD}) {
		t.Fatal("image bytes did not survive the round trip")
	}
}

func TestGetEmptySlot(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got != nil {
		t.Fatalf("expected empty slot, got %+v", got)
	}
}

func TestClearBeforeAnyPut(t *testing.T) {
	s := newTestStore(t)

	// Clear must initialize lazily and succeed on a fresh database.
	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("Clear err: %v", err)
	}
}

func TestPutReplacesPreviousSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, sampleRecord()); err != nil {
		t.Fatalf("first Put err: %v", err)
	}

	next := sampleRecord()
	next.Question = "what makes thunder?"
	next.Slides = next.Slides[:1]
	next.Slides[0].Text = "what makes thunder?"
	if err := s.Put(ctx, next); err != nil {
		t.Fatalf("second Put err: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got.Question != "what makes thunder?" {
		t.Fatalf("old snapshot survived: %+v", got)
	}
	if len(got.Slides) != 1 {
		t.Fatalf("stale slides survived replacement: %d", len(got.Slides))
	}
}

func TestClearRemovesSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, sampleRecord()); err != nil {
		t.Fatalf("Put err: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear err: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if got != nil {
		t.Fatal("snapshot survived Clear")
	}

	// Idempotent: clearing again is fine.
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear err: %v", err)
	}
}
