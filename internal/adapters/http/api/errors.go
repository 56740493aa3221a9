package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/okian/squadup/internal/domain/fault"
)

// ErrBadRequest marks a request the handlers could not decode.
var ErrBadRequest = fmt.Errorf("%w: bad request", fault.ErrValidation)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error kind to a status and writes the error body.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, fault.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, fault.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, fault.ErrPrecondition):
		return http.StatusConflict, "precondition_failed"
	case errors.Is(err, fault.ErrStore):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrBadRequest, name)
	}
	return id, nil
}
