package generate

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/wenqig/storyboard/backend/internal/model/show"
	"github.com/wenqig/storyboard/backend/internal/restore"
	"github.com/wenqig/storyboard/backend/internal/service/markup"
	"github.com/wenqig/storyboard/backend/internal/store"
)

// failAfterSource yields its fragments, then fails like an aborted stream.
type failAfterSource struct {
	fragments []show.Fragment
}

func (f *failAfterSource) Recv() (show.Fragment, error) {
	if len(f.fragments) == 0 {
		return show.Fragment{}, errors.New("stream aborted")
	}
	next := f.fragments[0]
	f.fragments = f.fragments[1:]
	return next, nil
}

func (f *failAfterSource) Close() {}

func TestGenerateThenRestoreAcrossProcesses(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "storyboard.db")
	ctx := context.Background()

	// First process: generate and persist.
	st := store.NewSQLiteStore(dbPath)
	src := &scriptedSource{fragments: []show.Fragment{
		show.TextFragment("water evaporates"),
		show.ImageFragment([]byte{10, 11, 12}, "image/png"),
	}}
	svc := NewService(factoryFor(src), st, markup.NewRenderer(), show.DefaultSettings())

	persisted, err := svc.Run(ctx, "where does rain come from?", show.DefaultSettings(), &collectSink{})
	if err != nil {
		t.Fatalf("Run err: %v", err)
	}
	if !persisted {
		t.Fatal("expected persisted session")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close err: %v", err)
	}

	// Second process: restore from the same file.
	st2 := store.NewSQLiteStore(dbPath)
	defer st2.Close()

	sess := restore.New(st2).Restore(ctx)
	if sess == nil {
		t.Fatal("expected restored session")
	}
	if sess.Question != "where does rain come from?" {
		t.Fatalf("question lost: %q", sess.Question)
	}
	if len(sess.Slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(sess.Slides))
	}
	if !bytes.Equal(sess.Slides[1].Image, []byte{10, 11, 12}) {
		t.Fatal("image bytes changed across the round trip")
	}
	// Caption was rendered once, at generation time.
	if !bytes.Contains([]byte(sess.Slides[1].Caption), []byte("water evaporates")) {
		t.Fatalf("caption lost: %q", sess.Slides[1].Caption)
	}
}

func TestInterruptedRunLeavesNoStaleSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "storyboard.db")
	ctx := context.Background()

	st := store.NewSQLiteStore(dbPath)
	defer st.Close()

	// A first answer is durable.
	first := &scriptedSource{fragments: []show.Fragment{
		show.TextFragment("old answer"),
		show.ImageFragment([]byte{1}, "image/png"),
	}}
	svc := NewService(factoryFor(first), st, nil, show.DefaultSettings())
	if _, err := svc.Run(ctx, "old question", show.DefaultSettings(), &collectSink{}); err != nil {
		t.Fatalf("first Run err: %v", err)
	}

	// The next run aborts mid-stream. The old snapshot must already be gone
	// and the interrupted run must not have written one.
	second := &failAfterSource{fragments: []show.Fragment{
		show.TextFragment("half an answer"),
	}}
	svc2 := NewService(factoryFor(second), st, nil, show.DefaultSettings())
	if _, err := svc2.Run(ctx, "new question", show.DefaultSettings(), &collectSink{}); err == nil {
		t.Fatal("expected aborted run to fail")
	}

	if sess := restore.New(st).Restore(ctx); sess != nil {
		t.Fatalf("stale snapshot survived the interrupted run: %+v", sess)
	}
}
