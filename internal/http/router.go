package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hotel-backend/internal/handlers"
	"hotel-backend/internal/middleware"
	"hotel-backend/internal/ws"
)

func NewRouter(
	accountHandler *handlers.RoomAccountHandler,
	tableHandler *handlers.RestaurantTableHandler,
	revenueHandler *handlers.RevenueHandler,
	receiptHandler *handlers.ReceiptHandler,
	paymentHandler *handlers.PaymentHandler,
	healthHandler *handlers.HealthHandler,
	hub *ws.Hub,
) *mux.Router {
	r := mux.NewRouter()

	// Registered on the router so the matched route template is available
	// for metric labels.
	r.Use(middleware.MetricsMiddleware)

	// Room billing accounts. The save-sync beacon carries its room number
	// in the body, so it is registered before the {room} routes.
	accounts := r.PathPrefix("/room-accounts").Subrouter()
	accounts.HandleFunc("", accountHandler.ListAccounts).Methods("GET")
	accounts.HandleFunc("", accountHandler.CreateAccount).Methods("POST")
	accounts.HandleFunc("/save-sync", accountHandler.SaveAccountSync).Methods("POST")
	accounts.HandleFunc("/{room}", accountHandler.GetAccount).Methods("GET")
	accounts.HandleFunc("/{room}", accountHandler.SaveAccount).Methods("PUT")
	accounts.HandleFunc("/{room}/clear", accountHandler.ClearAccount).Methods("POST")
	accounts.HandleFunc("/{room}/checkout", accountHandler.Checkout).Methods("POST")
	accounts.HandleFunc("/{room}/assign-order", accountHandler.AssignOrder).Methods("POST")
	accounts.HandleFunc("/{room}/statement.pdf", receiptHandler.AccountStatement).Methods("GET")
	accounts.HandleFunc("/{room}/advance-payment", paymentHandler.CreateAdvanceOrder).Methods("POST")
	accounts.HandleFunc("/{room}/advance-payment/confirm", paymentHandler.ConfirmAdvance).Methods("POST")
	r.HandleFunc("/payments/status", paymentHandler.Status).Methods("GET")

	// Restaurant tables. Order mutations share one body shape with an
	// action discriminator; the method decides which actions are allowed.
	tables := r.PathPrefix("/restaurant-tables").Subrouter()
	tables.HandleFunc("", tableHandler.ListTables).Methods("GET")
	tables.HandleFunc("", tableHandler.AddItem).Methods("POST")
	tables.HandleFunc("/{table}", tableHandler.GetTable).Methods("GET")
	tables.HandleFunc("/{table}", tableHandler.UpdateTable).Methods("PUT")
	tables.HandleFunc("/{table}", tableHandler.DeleteItem).Methods("DELETE")
	tables.HandleFunc("/{table}/close-order", tableHandler.CloseTable).Methods("POST")
	tables.HandleFunc("/{table}/receipt", tableHandler.Receipt).Methods("POST")

	r.HandleFunc("/restaurant/close-day", revenueHandler.CloseDay).Methods("POST")

	// Daily revenue archive
	revenue := r.PathPrefix("/daily-revenue").Subrouter()
	revenue.HandleFunc("", revenueHandler.ListDays).Methods("GET")
	revenue.HandleFunc("", revenueHandler.ArchiveOrder).Methods("POST")
	revenue.HandleFunc("/export.csv", revenueHandler.RangeCSV).Methods("GET")
	revenue.HandleFunc("/backups", revenueHandler.ListBackups).Methods("GET")
	revenue.HandleFunc("/{date}", revenueHandler.GetDay).Methods("GET")
	revenue.HandleFunc("/{date}/pdf", revenueHandler.DayPDF).Methods("GET")
	revenue.HandleFunc("/{date}/csv", revenueHandler.DayCSV).Methods("GET")

	// Live floor view
	r.HandleFunc("/ws/tables", hub.ServeWS)

	// Operational endpoints
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
