package api

import (
	"fmt"
	"net/http"

	service "github.com/okian/squadup/internal/app"
)

// handleUpsertPlayer handles POST /players.
func (s *Server) handleUpsertPlayer(w http.ResponseWriter, r *http.Request) {
	var in service.PlayerInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.deps.UpsertPlayer(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayerResponse(p))
}

// handleApplyModifier handles POST /players/{playerID}/modifiers.
func (s *Server) handleApplyModifier(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuidParam(r, "playerID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req modifierRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	multiplier := 1.0
	if req.Multiplier != nil {
		multiplier = *req.Multiplier
	}
	if req.CategoryID == "" {
		writeError(w, fmt.Errorf("%w: missing category_id", ErrBadRequest))
		return
	}
	applied, err := s.deps.ApplyPerformanceDelta(r.Context(), playerID, req.CategoryID, multiplier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modifierResponse{Applied: applied})
}
