package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mongosession/pkg/logger"
	"github.com/dmitrymomot/mongosession/pkg/session"
)

const visitsKey = "visits"

type visitsResponse struct {
	SessionID string `json:"session_id"`
	Visits    int    `json:"visits"`
	New       bool   `json:"new"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSessionError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.ErrorContext(r.Context(), "session unavailable", logger.Error(err))
	status := http.StatusInternalServerError
	if errors.Is(err, session.ErrStoreIO) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
}

// visitsHandler counts requests made with the same session
func visitsHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.Get(r.Context(), true)
		if err != nil {
			writeSessionError(w, r, log, err)
			return
		}

		n, _ := sess.GetInt(visitsKey)
		n++
		sess.Set(visitsKey, n)

		writeJSON(w, http.StatusOK, visitsResponse{
			SessionID: sess.ID(),
			Visits:    n,
			New:       sess.IsNew(),
		})
	}
}

// rotateHandler issues a new session id, keeping the attributes
func rotateHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.Rotate(r.Context())
		if err != nil {
			writeSessionError(w, r, log, err)
			return
		}
		n, _ := sess.GetInt(visitsKey)
		writeJSON(w, http.StatusOK, visitsResponse{SessionID: sess.ID(), Visits: n, New: sess.IsNew()})
	}
}

// logoutHandler invalidates the session, if any
func logoutHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := session.Invalidate(r.Context()); err != nil {
			writeSessionError(w, r, log, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
