package show

// FragmentSource yields the fragments of one generation stream in order.
// Recv returns io.EOF once the stream is exhausted. Implementations own the
// underlying transport; Close releases it.
type FragmentSource interface {
	Recv() (Fragment, error)
	Close()
}
