package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"hotel-backend/internal/models"
	"hotel-backend/internal/services"
	"hotel-backend/pkg/utils"
)

type RevenueHandler struct {
	Service  *services.RevenueService
	Reports  *services.ReportService
	DayClose *services.DayCloseService
	Backup   *services.BackupService
	validate *validator.Validate
}

func NewRevenueHandler(service *services.RevenueService, reports *services.ReportService, dayClose *services.DayCloseService, backup *services.BackupService) *RevenueHandler {
	return &RevenueHandler{Service: service, Reports: reports, DayClose: dayClose, Backup: backup, validate: validator.New()}
}

// ArchiveOrder folds order items into a date's record directly, without
// going through a table close. Used for corrections and walk-in sales.
func (h *RevenueHandler) ArchiveOrder(w http.ResponseWriter, r *http.Request) {
	var req models.ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.Service.Archive(r.Context(), req.DateKey, req.TableNumber, req.OrderItems)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, record)
}

func (h *RevenueHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["date"]

	record, err := h.Service.Get(r.Context(), dateKey)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, record)
}

func (h *RevenueHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			limit = n
		}
	}

	records, err := h.Service.List(r.Context(), limit)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, records)
}

// CloseDay runs the end-of-day sweep over all occupied tables.
func (h *RevenueHandler) CloseDay(w http.ResponseWriter, r *http.Request) {
	summary, err := h.DayClose.CloseDay(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *RevenueHandler) DayPDF(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["date"]

	pdfData, err := h.Reports.GenerateDailyRevenuePDF(r.Context(), dateKey)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="revenue_%s.pdf"`, dateKey))
	w.Write(pdfData)
}

func (h *RevenueHandler) DayCSV(w http.ResponseWriter, r *http.Request) {
	dateKey := mux.Vars(r)["date"]

	csvData, err := h.Reports.GenerateDailyRevenueCSV(r.Context(), dateKey)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="revenue_%s.csv"`, dateKey))
	w.Write(csvData)
}

func (h *RevenueHandler) RangeCSV(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			limit = n
		}
	}

	csvData, err := h.Reports.GenerateRangeCSV(r.Context(), limit)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="revenue_summary.csv"`)
	w.Write(csvData)
}

func (h *RevenueHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Backup.ListRevenueBackups(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, keys)
}
