package show

import (
	"encoding/base64"

	showmodel "github.com/wenqig/storyboard/backend/internal/model/show"
)

// Event is the wire form shared by the SSE and WebSocket delivery paths.
// Live and restored slides serialize identically. Image bytes are base64
// encoded only here, at the HTTP boundary.
type Event struct {
	Event      string `json:"event"`
	IsQuestion bool   `json:"isQuestion,omitempty"`
	Caption    string `json:"caption,omitempty"`
	ImageData  string `json:"imageData,omitempty"`
	MIMEType   string `json:"mimeType,omitempty"`
	Persisted  bool   `json:"persisted,omitempty"`
	Error      string `json:"error,omitempty"`
}

const (
	eventStart = "start"
	eventSlide = "slide"
	eventError = "error"
	eventEnd   = "end"
)

func slideEvent(s showmodel.Slide) Event {
	e := Event{
		Event:      eventSlide,
		IsQuestion: s.IsQuestion(),
		Caption:    s.Caption,
		MIMEType:   s.MIMEType,
	}
	if len(s.Image) > 0 {
		e.ImageData = base64.StdEncoding.EncodeToString(s.Image)
	}
	return e
}
