package show

// Sink receives slides as they complete. Live generation and snapshot
// restore feed the same contract, so a restored slideshow is
// indistinguishable from a freshly generated one downstream.
type Sink interface {
	RenderSlide(Slide) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Slide) error

func (f SinkFunc) RenderSlide(s Slide) error {
	return f(s)
}
