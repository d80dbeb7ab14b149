// Package segment groups an interleaved stream of text and image fragments
// into discrete slides.
package segment

import (
	"log"

	"github.com/wenqig/storyboard/backend/internal/model/show"
)

// CaptionRenderer turns accumulated caption source into the final caption
// text carried by the emitted slide. A nil renderer leaves the source as is.
type CaptionRenderer func(source string) string

// Segmenter accumulates fragments until a complete (caption, image) pair
// exists, then emits it as an answer slide. Captions may arrive in several
// pieces and may arrive before or after their image; a slide is the next
// complete pair in encounter order.
type Segmenter struct {
	render CaptionRenderer

	pendingCaption string
	pendingImage   []byte
	pendingMIME    string
}

// New creates a segmenter. render is applied to the accumulated caption
// source when a slide is emitted.
func New(render CaptionRenderer) *Segmenter {
	return &Segmenter{render: render}
}

// Consume folds one fragment into the accumulator and reports whether a
// completed slide was emitted. Unrecognized fragments are skipped with a
// diagnostic; a single malformed fragment never aborts the stream.
func (s *Segmenter) Consume(f show.Fragment) (show.Slide, bool) {
	switch f.Kind {
	case show.FragmentText:
		s.pendingCaption += f.Text
	case show.FragmentImage:
		// Last image wins when several arrive before the caption completes.
		s.pendingImage = f.Image
		s.pendingMIME = f.MIMEType
	default:
		log.Printf("[segment] skipping fragment with no usable payload")
		return show.Slide{}, false
	}

	if s.pendingCaption == "" || len(s.pendingImage) == 0 {
		return show.Slide{}, false
	}
	return s.emit(), true
}

// FlushRemainder drains the accumulator once the stream ends. A trailing
// image without a caption is still emitted; a trailing caption without an
// image is discarded. The asymmetry is inherited behavior, kept on purpose.
func (s *Segmenter) FlushRemainder() (show.Slide, bool) {
	if len(s.pendingImage) == 0 {
		if s.pendingCaption != "" {
			log.Printf("[segment] discarding trailing caption without image (%d chars)", len(s.pendingCaption))
			s.pendingCaption = ""
		}
		return show.Slide{}, false
	}
	return s.emit(), true
}

func (s *Segmenter) emit() show.Slide {
	caption := s.pendingCaption
	if s.render != nil && caption != "" {
		caption = s.render(caption)
	}

	slide := show.Slide{
		Role:     show.RoleAnswer,
		Caption:  caption,
		Image:    s.pendingImage,
		MIMEType: s.pendingMIME,
	}

	s.pendingCaption = ""
	s.pendingImage = nil
	s.pendingMIME = ""
	return slide
}
