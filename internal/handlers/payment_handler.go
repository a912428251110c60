package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"hotel-backend/internal/models"
	"hotel-backend/internal/services"
	"hotel-backend/pkg/utils"
)

type PaymentHandler struct {
	Service  *services.PaymentService
	validate *validator.Validate
}

func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: service, validate: validator.New()}
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": h.Service.Enabled()})
}

func (h *PaymentHandler) CreateAdvanceOrder(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	var req models.CreateAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.Service.CreateAdvanceOrder(r.Context(), room, req.Amount)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, order)
}

func (h *PaymentHandler) ConfirmAdvance(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	var req models.ConfirmAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.Service.ConfirmAdvance(r.Context(), room, &req)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, account)
}
