// Package restore rebuilds the last persisted slideshow at startup.
package restore

import (
	"context"
	"log"

	"github.com/wenqig/storyboard/backend/internal/model/show"
	"github.com/wenqig/storyboard/backend/internal/snapshot"
	"github.com/wenqig/storyboard/backend/internal/store"
)

// Orchestrator loads the stored snapshot once at process startup. Any
// failure degrades to "no session": a broken store must never keep the app
// from serving fresh generations.
type Orchestrator struct {
	store store.Store
}

// New creates a restore orchestrator over the given store.
func New(st store.Store) *Orchestrator {
	return &Orchestrator{store: st}
}

// Restore returns the reconstructed session, or nil when there is nothing
// usable to restore. A corrupt or unreadable record clears the store eagerly
// so the failure is not retried on every startup. Restore never panics past
// its own boundary and never returns an error.
func (o *Orchestrator) Restore(ctx context.Context) *show.Session {
	rec, err := o.store.Get(ctx)
	if err != nil {
		log.Printf("[restore] snapshot load failed, clearing store: %v", err)
		o.clear(ctx)
		return nil
	}
	if rec == nil {
		return nil
	}

	sess, err := snapshot.Decode(rec)
	if err != nil {
		log.Printf("[restore] snapshot unusable, clearing store: %v", err)
		o.clear(ctx)
		return nil
	}

	log.Printf("[restore] restored slideshow with %d slides", len(sess.Slides))
	return sess
}

func (o *Orchestrator) clear(ctx context.Context) {
	if err := o.store.Clear(ctx); err != nil {
		log.Printf("[restore] clear after failed restore: %v", err)
	}
}

// Replay feeds a session's slides to sink in order, using the same per-slide
// contract as live generation.
func Replay(sess *show.Session, sink show.Sink) error {
	if sess == nil {
		return nil
	}
	for _, slide := range sess.Slides {
		if err := sink.RenderSlide(slide); err != nil {
			return err
		}
	}
	return nil
}
