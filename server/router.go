package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"holdem-mcts/server/judge"
	"holdem-mcts/server/store"
)

func Router(svc *service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(svc.log))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "store": svc.cfg.StoreMode})
		})

		r.Get("/reference", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, judge.ReferenceHands())
		})

		r.Post("/estimate", func(w http.ResponseWriter, r *http.Request) {
			var req estimateRequest
			dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			resp, err := svc.runEstimate(r.Context(), req, nil)
			if err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Get("/runs", func(w http.ResponseWriter, r *http.Request) {
			limit := atoiDef(r.URL.Query().Get("limit"), store.DefaultRecentLimit)
			runs, err := svc.store.RecentRuns(r.Context(), limit)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, runs)
		})

		r.Get("/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			run, err := svc.store.GetRun(r.Context(), id)
			if err != nil {
				writeError(w, statusFor(err), err)
				return
			}
			writeJSON(w, http.StatusOK, run)
		})

		r.Get("/stream", svc.handleStream)
	})
	return r
}

func statusFor(err error) int {
	switch {
	case isClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error(), "status": status, "time": time.Now().UTC()})
}
