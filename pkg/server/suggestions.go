package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/homewatt/homewatt/pkg/log"
	"github.com/homewatt/homewatt/pkg/types"
)

// suggestionsRequest carries the previous suggestion batch so the engine
// can report whether anything new came up. GET requests have no previous
// batch.
type suggestionsRequest struct {
	Previous []types.Suggestion `json:"previous"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req suggestionsRequest
	if r.Method == http.MethodPost && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, 1048576)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	devices, err := s.storage.GetDevices(ctx)
	if err != nil {
		// no devices is a flagged terminal state, not an error; an
		// unreachable store gets the same explicit empty shape
		log.Ctx(ctx).ErrorContext(ctx, "failed to get devices", slog.Any("error", err))
		writeJSON(w, types.SuggestionResult{
			Suggestions: []types.Suggestion{},
			NoDevices:   true,
		})
		return
	}

	writeJSON(w, s.engine.Generate(devices, req.Previous))
}
