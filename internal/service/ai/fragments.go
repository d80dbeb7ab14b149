package ai

import (
	"encoding/base64"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/wenqig/storyboard/backend/internal/model/show"
)

// fragmentStream adapts an eino message stream into the fragment contract.
// One model chunk may carry several parts, so converted fragments queue up
// and drain one Recv at a time.
type fragmentStream struct {
	stream *schema.StreamReader[*schema.Message]
	queue  []show.Fragment
}

func newFragmentStream(stream *schema.StreamReader[*schema.Message]) *fragmentStream {
	return &fragmentStream{stream: stream}
}

// Recv returns the next fragment, or io.EOF when the generation is done.
func (f *fragmentStream) Recv() (show.Fragment, error) {
	for len(f.queue) == 0 {
		chunk, err := f.stream.Recv()
		if err != nil {
			// io.EOF included: nothing buffered, stream is finished.
			return show.Fragment{}, err
		}
		if chunk == nil {
			continue
		}
		f.queue = append(f.queue, convertChunk(chunk)...)
	}

	next := f.queue[0]
	f.queue = f.queue[1:]
	return next, nil
}

// Close releases the underlying model stream.
func (f *fragmentStream) Close() {
	f.stream.Close()
}

// convertChunk maps one streamed message into fragments. Parts that carry
// neither text nor a decodable inline image become unknown fragments; the
// segmenter logs and skips those instead of aborting the stream.
func convertChunk(msg *schema.Message) []show.Fragment {
	var fragments []show.Fragment

	if msg.Content != "" {
		fragments = append(fragments, show.TextFragment(msg.Content))
	}

	for _, part := range msg.MultiContent {
		switch part.Type {
		case schema.ChatMessagePartTypeText:
			if part.Text != "" {
				fragments = append(fragments, show.TextFragment(part.Text))
			}
		case schema.ChatMessagePartTypeImageURL:
			fragments = append(fragments, imageFragment(part.ImageURL))
		default:
			fragments = append(fragments, show.Fragment{Kind: show.FragmentUnknown})
		}
	}

	return fragments
}

func imageFragment(img *schema.ChatMessageImageURL) show.Fragment {
	if img == nil {
		return show.Fragment{Kind: show.FragmentUnknown}
	}

	data, mimeType, ok := decodeDataURI(img.URL)
	if !ok {
		return show.Fragment{Kind: show.FragmentUnknown}
	}
	if mimeType == "" {
		mimeType = img.MIMEType
	}
	return show.ImageFragment(data, mimeType)
}

// decodeDataURI extracts raw bytes and MIME type from a base64 data URI.
func decodeDataURI(uri string) ([]byte, string, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, "", false
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", false
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, "", false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", false
	}
	return data, mimeType, true
}
