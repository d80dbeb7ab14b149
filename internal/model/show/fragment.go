package show

// FragmentKind discriminates the payload of a stream fragment.
type FragmentKind int

const (
	// FragmentUnknown marks a fragment whose payload could not be
	// recognized. The segmenter skips these defensively.
	FragmentUnknown FragmentKind = iota
	FragmentText
	FragmentImage
)

// Fragment is one atomic piece of a generation stream: a run of caption
// text or a complete image. Order across fragments is significant.
type Fragment struct {
	Kind     FragmentKind
	Text     string
	Image    []byte
	MIMEType string
}

// TextFragment wraps a text chunk.
func TextFragment(text string) Fragment {
	return Fragment{Kind: FragmentText, Text: text}
}

// ImageFragment wraps raw image bytes and their MIME type.
func ImageFragment(data []byte, mimeType string) Fragment {
	return Fragment{Kind: FragmentImage, Image: data, MIMEType: mimeType}
}
