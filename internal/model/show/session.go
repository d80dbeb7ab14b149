package show

import (
	"errors"
	"html"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuestionRequired = errors.New("question is required")
	ErrEmptySlide       = errors.New("answer slide needs a caption or an image")
)

// Session is the in-memory slideshow aggregate: the originating question,
// the presentation settings captured at creation, and the ordered slides.
// The question slide is always first and is created synchronously, before
// any model fragment arrives.
type Session struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Settings  Settings  `json:"settings"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"createdAt"`
}

// Begin creates an empty session holding only the question slide. The
// question is user text, so its caption is plain-escaped rather than
// rendered as markup.
func Begin(question string, settings Settings) (*Session, error) {
	if question == "" {
		return nil, ErrQuestionRequired
	}

	s := &Session{
		ID:        uuid.NewString(),
		Question:  question,
		Settings:  settings,
		CreatedAt: time.Now().UTC(),
	}
	s.Slides = append(s.Slides, Slide{
		Role:    RoleQuestion,
		Caption: html.EscapeString(question),
	})
	return s, nil
}

// AppendAnswer adds a completed answer slide. A slide with neither caption
// nor image is rejected.
func (s *Session) AppendAnswer(slide Slide) error {
	if slide.Empty() {
		return ErrEmptySlide
	}
	slide.Role = RoleAnswer
	s.Slides = append(s.Slides, slide)
	return nil
}

// IsPersistable reports whether the session holds at least one real answer
// slide. A session with only the question slide never reaches the store, so
// a failed or empty generation cannot overwrite a durable slideshow.
func (s *Session) IsPersistable() bool {
	return len(s.Slides) > 1
}
