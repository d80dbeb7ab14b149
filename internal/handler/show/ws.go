package show

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	showmodel "github.com/wenqig/storyboard/backend/internal/model/show"
	"github.com/wenqig/storyboard/backend/internal/service/generate"
)

// WebSocketHandler streams the same slide events as the SSE endpoint over a
// websocket, for clients that want a bidirectional channel.
type WebSocketHandler struct {
	gen      *generate.Service
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket delivery handler.
func NewWebSocketHandler(gen *generate.Service) *WebSocketHandler {
	return &WebSocketHandler{
		gen: gen,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/show/ws", h.handleWebSocket)
}

type generateRequest struct {
	Question   string `json:"question"`
	Theme      string `json:"theme"`
	Ratio      string `json:"ratio"`
	ColorStyle string `json:"colorStyle"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req generateRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Printf("[ws] invalid request frame: %v", err)
		return
	}
	if req.Question == "" {
		conn.WriteJSON(Event{Event: eventError, Error: "question is required"})
		return
	}

	settings := showmodel.Settings{
		Theme:       req.Theme,
		AspectRatio: req.Ratio,
		ColorStyle:  req.ColorStyle,
	}.Normalize(h.gen.Settings())

	if err := conn.WriteJSON(Event{Event: eventStart}); err != nil {
		return
	}

	sink := showmodel.SinkFunc(func(s showmodel.Slide) error {
		return conn.WriteJSON(slideEvent(s))
	})

	persisted, err := h.gen.Run(r.Context(), req.Question, settings, sink)
	if err != nil {
		if errors.Is(err, generate.ErrBusy) {
			conn.WriteJSON(Event{Event: eventError, Error: "a generation is already in progress"})
			return
		}
		log.Printf("[ws] generation failed: %v", err)
		conn.WriteJSON(Event{Event: eventError, Error: "generation failed"})
		return
	}

	conn.WriteJSON(Event{Event: eventEnd, Persisted: persisted})
}
