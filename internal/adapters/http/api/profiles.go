package api

import (
	"fmt"
	"net/http"
	"strconv"

	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/domain/model"
)

// handleSubmitRating handles POST /ratings.
func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	rating, err := s.deps.SubmitRating(r.Context(), service.RatingInput{
		RaterID: req.RaterID,
		RateeID: req.RateeID,
		Scores:  req.array(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{
		RaterID:   rating.RaterID,
		RateeID:   rating.RateeID,
		Scores:    rating.Vector().Map(),
		UpdatedAt: rating.UpdatedAt,
	})
}

// handleAggregate handles POST /profiles/aggregate.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.deps.AggregateSkillProfiles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, aggregateResponse{Profiles: len(profiles)})
}

// handleStandings handles GET /profiles?limit=N.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	limit := s.profileLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit must be an integer", ErrBadRequest))
			return
		}
		limit = n
	}
	entries, err := s.deps.Standings(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleProfileRank handles GET /profiles/{playerID}.
func (s *Server) handleProfileRank(w http.ResponseWriter, r *http.Request) {
	playerID, err := uuidParam(r, "playerID")
	if err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.deps.ProfileRank(r.Context(), playerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleFormAdjustment handles POST /games/{gameID}/form-adjustments.
func (s *Server) handleFormAdjustment(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req formRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	adj, err := s.deps.SaveFormAdjustment(r.Context(), service.FormInput{
		GameID:     gameID,
		AdjusterID: req.AdjusterID,
		PlayerID:   req.PlayerID,
		Values:     req.array(),
		Note:       req.Note,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newFormResponse(adj))
}

func newFormResponse(a model.FormAdjustment) formResponse {
	return formResponse{
		GameID:     a.GameID,
		AdjusterID: a.AdjusterID,
		PlayerID:   a.PlayerID,
		Values:     a.Vector().Map(),
		Note:       a.Note,
	}
}
