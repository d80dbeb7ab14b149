// Package markup renders caption markdown into sanitized HTML. Slides carry
// the rendered form so a restored session never re-runs the renderer.
package markup

import (
	"bytes"
	"html"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts lightweight markdown to HTML and strips anything the
// sanitizer policy does not allow. Safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds the shared caption renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown source to sanitized HTML. On a conversion error
// the source is escaped and returned as plain text instead, so a bad caption
// never loses content or leaks markup.
func (r *Renderer) Render(source string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		log.Printf("[markup] render failed, falling back to plain text: %v", err)
		return html.EscapeString(source)
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String()))
}
