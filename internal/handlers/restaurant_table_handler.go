package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"hotel-backend/internal/models"
	"hotel-backend/internal/services"
	"hotel-backend/pkg/utils"
)

type RestaurantTableHandler struct {
	Service  *services.TableOrderService
	Receipts *services.ReceiptService
	validate *validator.Validate
}

func NewRestaurantTableHandler(service *services.TableOrderService, receipts *services.ReceiptService) *RestaurantTableHandler {
	return &RestaurantTableHandler{Service: service, Receipts: receipts, validate: validator.New()}
}

func tableNumberVar(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["table"])
	return n, err == nil && n > 0
}

func (h *RestaurantTableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Service.List(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, tables)
}

func (h *RestaurantTableHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	table, ok := tableNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid table number")
		return
	}

	t, err := h.Service.Get(r.Context(), table)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, t)
}

// The order mutations share one request shape with a body-level action
// discriminator; the HTTP method scopes which actions are legal.
//   POST   /restaurant-tables            add_item (table number in body)
//   PUT    /restaurant-tables/{table}    update_quantity, assign_room
//   DELETE /restaurant-tables/{table}    remove_item

// AddItem handles POST: appends or accumulates an order line.
func (h *RestaurantTableHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAction(w, r, models.ActionAddItem)
	if !ok {
		return
	}
	if req.TableNumber <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid table number")
		return
	}
	h.applyAction(w, r, req, req.TableNumber)
}

// UpdateTable handles PUT: quantity changes and room assignment.
func (h *RestaurantTableHandler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	table, ok := tableNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid table number")
		return
	}
	req, ok := h.decodeAction(w, r, models.ActionUpdateQuantity, models.ActionAssignRoom)
	if !ok {
		return
	}
	h.applyAction(w, r, req, table)
}

// DeleteItem handles DELETE: removes one order line.
func (h *RestaurantTableHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	table, ok := tableNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid table number")
		return
	}
	req, ok := h.decodeAction(w, r, models.ActionRemoveItem)
	if !ok {
		return
	}
	h.applyAction(w, r, req, table)
}

func (h *RestaurantTableHandler) decodeAction(w http.ResponseWriter, r *http.Request, allowed ...string) (*models.TableActionRequest, bool) {
	var req models.TableActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	for _, a := range allowed {
		if req.Action == a {
			return &req, true
		}
	}
	utils.Error(w, http.StatusBadRequest, "Action "+req.Action+" not allowed on this method")
	return nil, false
}

func (h *RestaurantTableHandler) applyAction(w http.ResponseWriter, r *http.Request, req *models.TableActionRequest, table int) {
	var (
		t   *models.RestaurantTable
		err error
	)
	switch req.Action {
	case models.ActionAddItem:
		t, err = h.Service.AddItem(r.Context(), table, models.OrderLine{
			ProductID:    req.ProductID,
			ProductName:  req.ProductName,
			CategoryName: req.Category,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
		})
	case models.ActionUpdateQuantity:
		t, err = h.Service.UpdateQuantity(r.Context(), table, req.ProductID, req.Quantity)
	case models.ActionRemoveItem:
		t, err = h.Service.RemoveItem(r.Context(), table, req.ProductID)
	case models.ActionAssignRoom:
		t, err = h.Service.AssignRoom(r.Context(), table, req.RoomNumber)
	}
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, t)
}

// CloseTable archives the order to today's revenue and frees the table.
func (h *RestaurantTableHandler) CloseTable(w http.ResponseWriter, r *http.Request) {
	table, ok := tableNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid table number")
		return
	}

	result, err := h.Service.Close(r.Context(), table)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// Receipt renders the current order as a printer-ready payload with its
// destination address. The caller owns delivery to the printer.
func (h *RestaurantTableHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	table, ok := tableNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid table number")
		return
	}

	payload, err := h.Receipts.TableReceipt(r.Context(), table)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payload)
}
