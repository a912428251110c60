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

type RoomAccountHandler struct {
	Service  *services.RoomAccountService
	validate *validator.Validate
}

func NewRoomAccountHandler(service *services.RoomAccountService) *RoomAccountHandler {
	return &RoomAccountHandler{Service: service, validate: validator.New()}
}

func roomNumberVar(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["room"])
	return n, err == nil && n > 0
}

func (h *RoomAccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, account)
}

func (h *RoomAccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	account, err := h.Service.GetByRoom(r.Context(), room)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, account)
}

func (h *RoomAccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Service.ListActive(r.Context())
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, accounts)
}

// SaveAccount is the autosave endpoint: a field patch that recomputes
// totals and persists. Saving a room with no account opens one.
func (h *RoomAccountHandler) SaveAccount(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	var req models.UpdateRoomAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.Service.Update(r.Context(), room, &req, "api")
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, account)
}

// SaveAccountSync is the shutdown beacon. The room number rides in the body
// because beacons cannot choose their path per room. The response is written
// before the save runs so an unloading client is never kept waiting; the
// save itself finishes in the background.
func (h *RoomAccountHandler) SaveAccountSync(w http.ResponseWriter, r *http.Request) {
	var req models.SaveSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusAccepted, map[string]bool{"queued": true})

	go func() {
		ctx, cancel := saveSyncContext()
		defer cancel()
		if _, err := h.Service.Update(ctx, req.RoomNumber, &req.Account, "beacon"); err != nil {
			logSaveSyncFailure(req.RoomNumber, err)
		}
	}()
}

func (h *RoomAccountHandler) ClearAccount(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	account, err := h.Service.Clear(r.Context(), room)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, account)
}

func (h *RoomAccountHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	account, err := h.Service.Checkout(r.Context(), room)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, account)
}

// AssignOrder routes a table order's value onto the room's ledger.
func (h *RoomAccountHandler) AssignOrder(w http.ResponseWriter, r *http.Request) {
	room, ok := roomNumberVar(r)
	if !ok {
		utils.Error(w, http.StatusBadRequest, "Invalid room number")
		return
	}

	var req models.AssignOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Service.AssignOrder(r.Context(), room, &req)
	if err != nil {
		utils.Fail(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
