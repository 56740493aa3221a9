package api

import (
	"fmt"
	"net/http"

	service "github.com/okian/squadup/internal/app"
	"github.com/okian/squadup/internal/domain/model"
)

// handleCreateGame handles POST /games.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var in service.GameInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.deps.CreateGame(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGameResponse(g))
}

// handleGetGame handles GET /games/{gameID}.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := s.deps.GetGame(r.Context(), gameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameResponse(g))
}

// handleSetStatus handles POST /games/{gameID}/status.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req statusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.deps.SetGameStatus(r.Context(), gameID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameResponse(g))
}

// handleComplete handles POST /games/{gameID}/complete.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req completeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.deps.CompleteGame(r.Context(), service.CompleteInput{
		GameID:     gameID,
		ScoreTeamA: req.ScoreTeamA,
		ScoreTeamB: req.ScoreTeamB,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameResponse(g))
}

// handleRSVP handles POST /games/{gameID}/rsvps.
func (s *Server) handleRSVP(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req rsvpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	switch req.Action {
	case actionJoin, "":
		rsvp, err := s.deps.JoinGame(r.Context(), gameID, req.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newRSVPResponse(rsvp))
	case actionCancel:
		promoted, err := s.deps.LeaveGame(r.Context(), gameID, req.PlayerID)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := leaveResponse{Status: model.RSVPCancelled}
		if promoted != nil {
			p := newRSVPResponse(*promoted)
			resp.Promoted = &p
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeError(w, fmt.Errorf("%w: action must be join or cancel", ErrBadRequest))
	}
}

// handleListRSVPs handles GET /games/{gameID}/rsvps?status=.
func (s *Server) handleListRSVPs(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuidParam(r, "gameID")
	if err != nil {
		writeError(w, err)
		return
	}
	status := model.RSVPStatus(r.URL.Query().Get("status"))
	switch status {
	case "", model.RSVPConfirmed, model.RSVPWaitlist, model.RSVPCancelled:
	default:
		writeError(w, fmt.Errorf("%w: unknown status %q", ErrBadRequest, status))
		return
	}
	rsvps, err := s.deps.ListRSVPs(r.Context(), gameID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]rsvpResponse, len(rsvps))
	for i, rs := range rsvps {
		out[i] = newRSVPResponse(rs)
	}
	writeJSON(w, http.StatusOK, out)
}
