package handlers

import (
	"fmt"
	"net/http"

	"hotel-backend/internal/services"
	"hotel-backend/pkg/utils"
)

type ReceiptHandler struct {
	Service *services.ReceiptService
}

func NewReceiptHandler(service *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{Service: service}
}

// AccountStatement renders the room account as a checkout statement PDF.
func (h *ReceiptHandler) AccountStatement(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	pdfData, err := h.Service.AccountStatementPDF(r.Context(), room)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="room_%d_statement.pdf"`, room))
	w.Write(pdfData)
}
