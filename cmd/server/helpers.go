package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jhpark-coder/fitcoach/internal/errors"
	"github.com/jhpark-coder/fitcoach/internal/recommend"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.clientError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// serviceError translates engine errors into HTTP status codes.
func (app *application) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidInput):
		app.clientError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, recommend.ErrConflict):
		// Concurrent preference updates are transient, the client can retry.
		app.clientError(w, r, http.StatusConflict, err.Error())
	default:
		app.serverError(w, r, err)
	}
}
