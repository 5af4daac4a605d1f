package server

import (
	"net/http"

	"github.com/chichamlab/chicham/internal/service"
	"github.com/go-chi/chi/v5"
)

func mountStats(r chi.Router, stats *service.StatsService) {
	h := &statsHandler{stats: stats}

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.global)
		r.Get("/translations/{id}", h.summary)
	})
}

type statsHandler struct {
	stats *service.StatsService
}

func (h *statsHandler) global(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Global(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *statsHandler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Summary(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
