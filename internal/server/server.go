// Package server exposes any store.Store as the HTTP record store the
// client expects: GET /data, POST /save, POST /delete.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/faizmokh/gaji/internal/ledger"
	"github.com/faizmokh/gaji/internal/logging"
	"github.com/faizmokh/gaji/internal/store"
)

const maxBodyBytes = 1 << 16

// Handler serves the record store API.
type Handler struct {
	store  store.Store
	logger *slog.Logger
	mux    *http.ServeMux
}

// NewHandler wires routes for st.
func NewHandler(st store.Store, logger *slog.Logger) *Handler {
	h := &Handler{
		store:  st,
		logger: logging.Component(logger, logging.ComponentServer),
		mux:    http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /data", h.handleData)
	h.mux.HandleFunc("POST /save", h.handleSave)
	h.mux.HandleFunc("POST /delete", h.handleDelete)
	h.mux.HandleFunc("GET /health", h.handleHealth)
	return h
}

// ServeHTTP logs each request and dispatches to the mux.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.logger.Info("request",
		logging.FieldMethod, r.Method,
		logging.FieldPath, r.URL.Path,
		logging.FieldRequestID, r.Header.Get("X-Request-ID"),
		logging.FieldStatusCode, rec.status,
		logging.FieldDuration, time.Since(start).Milliseconds())
}

func (h *Handler) handleData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Fetch(r.Context())
	if err != nil {
		h.fail(w, "fetch records", err, http.StatusInternalServerError)
		return
	}
	body, err := store.EncodeSnapshot(snap)
	if err != nil {
		h.fail(w, "encode records", err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, "read body", err, http.StatusBadRequest)
		return
	}
	rec, err := store.DecodeRecord(body)
	if err != nil {
		h.fail(w, "decode record", err, http.StatusBadRequest)
		return
	}

	if rec.IsBonus {
		value, err := h.store.SaveBonus(r.Context(), rec.Bonus)
		if err != nil {
			h.fail(w, "save bonus", err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, store.NewBonusRecord(value))
		return
	}

	saved, err := h.store.SaveWeek(r.Context(), rec.Week)
	if err != nil {
		h.fail(w, "save week", err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req store.DeleteRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.fail(w, "decode delete request", err, http.StatusBadRequest)
		return
	}
	if req.WeekID == "" {
		h.fail(w, "decode delete request", errors.New("weekId is required"), http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteWeek(r.Context(), req.WeekID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ledger.ErrWeekNotFound) {
			status = http.StatusNotFound
		}
		h.fail(w, "delete week", err, status)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error, status int) {
	h.logger.Error("request failed", logging.FieldOperation, op, logging.FieldError, err)
	writeJSON(w, status, map[string]string{"error": op + ": " + err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
