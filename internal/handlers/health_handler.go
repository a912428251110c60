package handlers

import (
	"net/http"

	"hotel-backend/internal/health"
	"hotel-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}

// Ready reports whether the service can take traffic: only the database
// matters, a cold cache is fine.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	if status.Database.Status != "healthy" {
		utils.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// Detailed adds host CPU, memory and disk usage to the basic view.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.CheckBasic()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, map[string]interface{}{
		"status":   status.Status,
		"database": status.Database,
		"cache":    status.Cache,
		"system":   h.Checker.CollectSystemStats(),
	})
}
