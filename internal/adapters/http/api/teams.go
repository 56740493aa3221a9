package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleGenerateTeams handles POST /games/{gameID}/teams.
func (s *Server) handleGenerateTeams(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	t, err := s.deps.GenerateTeams(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, teamsResponse{
		GameID:    t.GameID,
		TeamA:     t.TeamA,
		TeamB:     t.TeamB,
		Cost:      t.Cost,
		Locked:    t.Locked,
		Published: t.Published,
	})
}

// handleGetTeams handles GET /games/{gameID}/teams.
func (s *Server) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := s.deps.Teams(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleTeamFlag handles POST /games/{gameID}/teams/{lock|unlock|publish|unpublish}.
func (s *Server) handleTeamFlag(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	ctx := r.Context()
	switch action := chi.URLParam(r, "action"); action {
	case "lock":
		err = s.deps.LockTeams(ctx, gameID)
	case "unlock":
		err = s.deps.UnlockTeams(ctx, gameID)
	case "publish":
		err = s.deps.PublishTeams(ctx, gameID, true)
	case "unpublish":
		err = s.deps.PublishTeams(ctx, gameID, false)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		writeError(w, fmt.Errorf("teams: %w", err))
		return
	}
	view, err := s.deps.Teams(ctx, gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
