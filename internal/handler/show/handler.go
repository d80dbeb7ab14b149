// Package show exposes the slideshow generation and replay endpoints.
package show

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	showmodel "github.com/wenqig/storyboard/backend/internal/model/show"
	"github.com/wenqig/storyboard/backend/internal/restore"
	"github.com/wenqig/storyboard/backend/internal/service/generate"
	"github.com/wenqig/storyboard/backend/pkg/utils"
)

// Handler serves slideshow generation over SSE plus the replay endpoints.
type Handler struct {
	gen *generate.Service
}

// New creates the slideshow handler.
func New(gen *generate.Service) *Handler {
	return &Handler{gen: gen}
}

// RegisterRoutes mounts the slideshow routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/show/stream", h.handleStream)
	r.Get("/show/last", h.handleLast)
	r.Get("/show/settings", h.handleSettings)
}

// handleStream runs one generation and streams slides as SSE events.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	if question == "" {
		utils.RespondError(w, http.StatusBadRequest, "question query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	if h.gen.Busy() {
		utils.RespondError(w, http.StatusConflict, "a generation is already in progress")
		return
	}

	settings := showmodel.Settings{
		Theme:       r.URL.Query().Get("theme"),
		AspectRatio: r.URL.Query().Get("ratio"),
		ColorStyle:  r.URL.Query().Get("colorStyle"),
	}.Normalize(h.gen.Settings())

	utils.SetupSSEHeaders(w)
	utils.SendSSEChunk(w, flusher, Event{Event: eventStart})

	sink := showmodel.SinkFunc(func(s showmodel.Slide) error {
		utils.SendSSEChunk(w, flusher, slideEvent(s))
		return r.Context().Err()
	})

	persisted, err := h.gen.Run(r.Context(), question, settings, sink)
	if err != nil {
		// The busy pre-check raced: report it like any generation failure.
		if errors.Is(err, generate.ErrBusy) {
			utils.SendSSEChunk(w, flusher, Event{Event: eventError, Error: "a generation is already in progress"})
			return
		}
		log.Printf("[sse] generation failed: %v", err)
		utils.SendSSEChunk(w, flusher, Event{Event: eventError, Error: "generation failed"})
		return
	}

	utils.SendSSEChunk(w, flusher, Event{Event: eventEnd, Persisted: persisted})
}

// handleLast replays the current session (restored at startup or produced by
// the latest generation) through the same slide encoding the stream uses.
func (h *Handler) handleLast(w http.ResponseWriter, r *http.Request) {
	sess := h.gen.Current()
	if sess == nil {
		utils.RespondError(w, http.StatusNotFound, "no slideshow available")
		return
	}

	var slides []Event
	sink := showmodel.SinkFunc(func(s showmodel.Slide) error {
		slides = append(slides, slideEvent(s))
		return nil
	})
	if err := restore.Replay(sess, sink); err != nil {
		log.Printf("[show] replay failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "replay failed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"question": sess.Question,
		"settings": sess.Settings,
		"slides":   slides,
	})
}

// handleSettings reports the active selection plus the allowed values.
func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"current": h.gen.Settings(),
		"themes":  showmodel.Themes,
		"ratios":  showmodel.AspectRatios,
		"colors":  showmodel.ColorStyles,
	})
}
