package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"hotel-backend/internal/cache"
	"hotel-backend/internal/config"
	"hotel-backend/internal/database"
	"hotel-backend/internal/db"
	"hotel-backend/internal/handlers"
	"hotel-backend/internal/health"
	h "hotel-backend/internal/http"
	"hotel-backend/internal/middleware"
	"hotel-backend/internal/repositories"
	"hotel-backend/internal/services"
	"hotel-backend/internal/ws"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()
	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable, running without: %v", err)
	}

	// Repositories
	accountRepo := repositories.NewRoomAccountRepository(pool)
	tableRepo := repositories.NewRestaurantTableRepository(pool)
	revenueRepo := repositories.NewDailyRevenueRepository(pool)

	// Seed the physical tables on first boot.
	if err := tableRepo.EnsureTables(ctx, cfg.Hotel.TableCount); err != nil {
		log.Fatalf("table seed failed: %v", err)
	}

	// Live floor view hub
	hub := ws.NewHub()

	// Services
	revenueService := services.NewRevenueService(pool, revenueRepo)
	tableService := services.NewTableOrderService(pool, tableRepo, revenueService, hub)
	accountService := services.NewRoomAccountService(pool, accountRepo, tableRepo)
	backupService := services.NewBackupService(cfg.Backup)
	dayCloseService := services.NewDayCloseService(tableService, revenueService, backupService.CloseHook())
	reportService := services.NewReportService(revenueService)
	receiptService := services.NewReceiptService(cfg.Hotel.Name, cfg.Printer.Address, tableService, accountService)
	paymentService := services.NewPaymentService(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, accountService)

	// Handlers
	healthChecker := health.NewHealthChecker(pool)
	accountHandler := handlers.NewRoomAccountHandler(accountService)
	tableHandler := handlers.NewRestaurantTableHandler(tableService, receiptService)
	revenueHandler := handlers.NewRevenueHandler(revenueService, reportService, dayCloseService, backupService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		accountHandler,
		tableHandler,
		revenueHandler,
		receiptHandler,
		paymentHandler,
		healthHandler,
		hub,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(corsMiddleware(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
