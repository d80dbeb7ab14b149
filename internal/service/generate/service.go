// Package generate runs one slideshow generation end to end: guard the
// single active stream, clear the stale snapshot, segment fragments into
// slides, feed the sink, and persist the finished session.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/wenqig/storyboard/backend/internal/model/show"
	"github.com/wenqig/storyboard/backend/internal/segment"
	"github.com/wenqig/storyboard/backend/internal/service/markup"
	"github.com/wenqig/storyboard/backend/internal/snapshot"
	"github.com/wenqig/storyboard/backend/internal/store"
)

// ErrBusy is returned when a generation is requested while another stream is
// still being consumed. Only one generation may be active at a time.
var ErrBusy = errors.New("a generation is already in progress")

// SourceFactory opens the fragment stream for one generation request.
type SourceFactory func(ctx context.Context, question string, settings show.Settings) (show.FragmentSource, error)

// Service orchestrates generations and owns the current session state.
type Service struct {
	openSource SourceFactory
	store      store.Store
	markup     *markup.Renderer

	busy atomic.Bool

	mu       sync.RWMutex
	current  *show.Session
	settings show.Settings
}

// NewService wires the generation pipeline. defaults seeds the selection
// state served to clients before any generation or restore happened.
func NewService(openSource SourceFactory, st store.Store, renderer *markup.Renderer, defaults show.Settings) *Service {
	return &Service{
		openSource: openSource,
		store:      st,
		markup:     renderer,
		settings:   defaults,
	}
}

// Run executes one generation. Slides are delivered to sink as they
// complete, the question slide first and synchronously. It returns whether
// the finished session was persisted. Persistence failures are absorbed:
// the slideshow still rendered, so they never surface to the caller.
func (s *Service) Run(ctx context.Context, question string, settings show.Settings, sink show.Sink) (bool, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return false, ErrBusy
	}
	defer s.busy.Store(false)

	// Drop the previous snapshot before the first fragment is consumed, so
	// an interrupted run cannot leave a stale answer behind.
	if err := s.store.Clear(ctx); err != nil {
		log.Printf("[show] clearing previous snapshot: %v", err)
	}

	sess, err := show.Begin(question, settings)
	if err != nil {
		return false, err
	}
	if err := sink.RenderSlide(sess.Slides[0]); err != nil {
		return false, fmt.Errorf("render question slide: %w", err)
	}

	src, err := s.openSource(ctx, question, settings)
	if err != nil {
		return false, fmt.Errorf("open generation stream: %w", err)
	}
	defer src.Close()

	if err := s.consume(src, sess, sink); err != nil {
		return false, err
	}

	persisted := s.persist(ctx, sess)
	s.setCurrent(sess)
	log.Printf("[show] generation complete: %d slides, persisted=%t", len(sess.Slides), persisted)
	return persisted, nil
}

func (s *Service) consume(src show.FragmentSource, sess *show.Session, sink show.Sink) error {
	seg := segment.New(s.renderCaption())

	for {
		frag, err := src.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("receive fragment: %w", err)
		}

		slide, ok := seg.Consume(frag)
		if !ok {
			continue
		}
		if err := s.deliver(sess, sink, slide); err != nil {
			return err
		}
	}

	if slide, ok := seg.FlushRemainder(); ok {
		return s.deliver(sess, sink, slide)
	}
	return nil
}

func (s *Service) deliver(sess *show.Session, sink show.Sink, slide show.Slide) error {
	if err := sess.AppendAnswer(slide); err != nil {
		return err
	}
	if err := sink.RenderSlide(slide); err != nil {
		return fmt.Errorf("render slide: %w", err)
	}
	return nil
}

// persist writes the finished session, but only when it holds at least one
// real answer slide. It reports whether a snapshot is now durable.
func (s *Service) persist(ctx context.Context, sess *show.Session) bool {
	if !sess.IsPersistable() {
		return false
	}

	rec, err := snapshot.Encode(sess)
	if err != nil {
		log.Printf("[show] snapshot encode failed: %v", err)
		return false
	}
	if err := s.store.Put(ctx, rec); err != nil {
		log.Printf("[show] snapshot store failed: %v", err)
		return false
	}
	return true
}

func (s *Service) renderCaption() segment.CaptionRenderer {
	if s.markup == nil {
		return nil
	}
	return s.markup.Render
}

// Busy reports whether a generation stream is currently being consumed.
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// Current returns the last completed or restored session, if any.
func (s *Service) Current() *show.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Settings returns the active presentation selection.
func (s *Service) Settings() show.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetRestored installs a session recovered from the snapshot store as the
// current one, adopting its settings as the active selection.
func (s *Service) SetRestored(sess *show.Session) {
	if sess == nil {
		return
	}
	s.setCurrent(sess)
}

func (s *Service) setCurrent(sess *show.Session) {
	s.mu.Lock()
	s.current = sess
	s.settings = sess.Settings
	s.mu.Unlock()
}
