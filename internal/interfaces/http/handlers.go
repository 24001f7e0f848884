package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sawpanic/tokenwatch/internal/token"
)

// Controller is the subset of the refresh controller the API serves from.
type Controller interface {
	Tokens() []token.Token
	Loading() bool
	Err() error
	Refresh(ctx context.Context)
	Patch(id string, p token.Patch) bool
}

// Handlers bundles the HTTP endpoints over one snapshot controller.
type Handlers struct {
	controller Controller
	stream     *streamer
}

func NewHandlers(controller Controller, pushInterval time.Duration) *Handlers {
	return &Handlers{
		controller: controller,
		stream:     newStreamer(controller, pushInterval),
	}
}

type tokensResponse struct {
	Tokens    []token.Token `json:"tokens"`
	IsLoading bool          `json:"isLoading"`
	Error     string        `json:"error,omitempty"`
}

// Tokens serves the current snapshot together with the loading flag and the
// last cycle's error, mirroring the consumer-facing query object.
func (h *Handlers) Tokens(w http.ResponseWriter, r *http.Request) {
	resp := tokensResponse{
		Tokens:    h.controller.Tokens(),
		IsLoading: h.controller.Loading(),
	}
	if err := h.controller.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// PatchToken merges partial fields into one token in place.
func (h *Handlers) PatchToken(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var patch token.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed patch body"})
		return
	}

	if !h.controller.Patch(id, patch) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown token id"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh runs a full fallback-chain cycle outside the timer.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	h.controller.Refresh(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "refreshed",
		"tokens": len(h.controller.Tokens()),
	})
}

// Health reports snapshot freshness and last cycle state.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	tokens := h.controller.Tokens()
	status := "ok"
	if len(tokens) == 0 {
		status = "warming_up"
	}

	resp := map[string]any{
		"status":    status,
		"tokens":    len(tokens),
		"isLoading": h.controller.Loading(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.controller.Err(); err != nil {
		resp["lastError"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
