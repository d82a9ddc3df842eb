package handlers

import (
	"net/http"

	"github.com/MATTHEWOGISI/OHMS-NEW/internal/httpx"
	"github.com/MATTHEWOGISI/OHMS-NEW/internal/services"
)

type DashboardHandler struct {
	Svc *services.StatsService
}

func NewDashboardHandler(svc *services.StatsService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Get(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_stats", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}
