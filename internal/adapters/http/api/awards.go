package api

import (
	"net/http"

	service "github.com/okian/squadup/internal/app"
)

// handleCategories handles GET /award-categories.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.deps.AwardCategories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]categoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse{ID: c.ID, Label: c.Label, Description: c.Description}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAwardVote handles POST /games/{gameID}/award-votes.
func (s *Server) handleAwardVote(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req voteRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.deps.SubmitAwardVote(r.Context(), service.VoteInput{
		GameID:     gameID,
		VoterID:    req.VoterID,
		CategoryID: req.CategoryID,
		NomineeID:  req.NomineeID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, voteResponse{GameID: v.GameID, VoterID: v.VoterID, CategoryID: v.CategoryID, NomineeID: v.NomineeID})
}

// handleTabulate handles POST /games/{gameID}/awards.
func (s *Server) handleTabulate(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := s.deps.TabulateAwards(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAwardResponses(results))
}

// handleGetAwards handles GET /games/{gameID}/awards.
func (s *Server) handleGetAwards(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := s.deps.AwardResults(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAwardResponses(results))
}
