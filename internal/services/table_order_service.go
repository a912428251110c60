package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/cache"
	"hotel-backend/internal/models"
	"hotel-backend/internal/repositories"
	"hotel-backend/internal/timeutil"
	"hotel-backend/internal/ws"
)

// casRetries bounds the read-modify-write retry loop on version conflicts.
const casRetries = 3

// TableOrderService owns the per-table order state: item accumulation,
// status derivation and the archive-then-reset close.
type TableOrderService struct {
	DB        *pgxpool.Pool
	TableRepo *repositories.RestaurantTableRepository
	Revenue   *RevenueService
	Hub       *ws.Hub
}

func NewTableOrderService(db *pgxpool.Pool, tableRepo *repositories.RestaurantTableRepository, revenue *RevenueService, hub *ws.Hub) *TableOrderService {
	return &TableOrderService{
		DB:        db,
		TableRepo: tableRepo,
		Revenue:   revenue,
		Hub:       hub,
	}
}

func (s *TableOrderService) Get(ctx context.Context, tableNumber int) (*models.RestaurantTable, error) {
	return s.TableRepo.Get(ctx, s.DB, tableNumber)
}

// List returns every table, served from cache when possible. The floor view
// polls this alongside the websocket feed, so the cache earns its keep.
func (s *TableOrderService) List(ctx context.Context) ([]*models.RestaurantTable, error) {
	if data, ok := cache.GetCached(ctx, cache.TablesListKey); ok {
		var tables []*models.RestaurantTable
		if err := json.Unmarshal(data, &tables); err == nil {
			return tables, nil
		}
	}

	tables, err := s.TableRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(tables); err == nil {
		cache.SetCached(ctx, cache.TablesListKey, data, time.Minute)
	}
	return tables, nil
}

// AddItem merges an order line into the table, accumulating quantity when
// the product is already on the order.
func (s *TableOrderService) AddItem(ctx context.Context, tableNumber int, item models.OrderLine) (*models.RestaurantTable, error) {
	if item.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}
	if item.UnitPrice.IsNegative() {
		return nil, apperr.Validation("unit price must not be negative")
	}
	return s.mutate(ctx, tableNumber, func(t *models.RestaurantTable) error {
		t.AddItem(item)
		return nil
	})
}

// UpdateQuantity sets an order line's quantity; zero removes the line.
func (s *TableOrderService) UpdateQuantity(ctx context.Context, tableNumber int, productID string, quantity int) (*models.RestaurantTable, error) {
	if quantity < 0 {
		return nil, apperr.Validation("quantity must not be negative")
	}
	return s.mutate(ctx, tableNumber, func(t *models.RestaurantTable) error {
		if !t.UpdateQuantity(productID, quantity) {
			return apperr.NotFound("product %s not on table %d", productID, tableNumber)
		}
		return nil
	})
}

// RemoveItem deletes an order line.
func (s *TableOrderService) RemoveItem(ctx context.Context, tableNumber int, productID string) (*models.RestaurantTable, error) {
	return s.mutate(ctx, tableNumber, func(t *models.RestaurantTable) error {
		if !t.RemoveItem(productID) {
			return apperr.NotFound("product %s not on table %d", productID, tableNumber)
		}
		return nil
	})
}

// AssignRoom points the table at a room without touching its order; 0
// clears the assignment.
func (s *TableOrderService) AssignRoom(ctx context.Context, tableNumber, roomNumber int) (*models.RestaurantTable, error) {
	if roomNumber < 0 {
		return nil, apperr.Validation("room number must not be negative")
	}
	return s.mutate(ctx, tableNumber, func(t *models.RestaurantTable) error {
		t.AssignedRoom = roomNumber
		return nil
	})
}

// mutate runs a read-modify-write cycle on the table with a bounded retry
// on version conflicts, then invalidates caches and broadcasts the new
// state.
func (s *TableOrderService) mutate(ctx context.Context, tableNumber int, apply func(*models.RestaurantTable) error) (*models.RestaurantTable, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		t, err := s.TableRepo.Get(ctx, s.DB, tableNumber)
		if err != nil {
			return nil, err
		}
		if err := apply(t); err != nil {
			return nil, err
		}
		if err := s.TableRepo.Save(ctx, s.DB, t); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				lastErr = err
				continue
			}
			return nil, err
		}
		s.afterMutation(ctx, t)
		return t, nil
	}
	return nil, lastErr
}

// Close archives the table's order into today's revenue record and resets
// the table. Both run in one transaction: either the order lands in the
// archive and the table is freed, or neither happens and the failure is
// surfaced with the order still intact on the table.
func (s *TableOrderService) Close(ctx context.Context, tableNumber int) (*models.CloseOrderResult, error) {
	return s.close(ctx, tableNumber, timeutil.TodayKey())
}

func (s *TableOrderService) close(ctx context.Context, tableNumber int, dateKey string) (*models.CloseOrderResult, error) {
	operationID := uuid.NewString()

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to open close transaction")
	}
	defer tx.Rollback(ctx)

	t, err := s.TableRepo.GetForUpdate(ctx, tx, tableNumber)
	if err != nil {
		return nil, err
	}
	if len(t.OrderItems) == 0 {
		return nil, apperr.InvalidState("table %d has no order to close", tableNumber)
	}

	archivedTotal := t.OrderTotal
	itemCount := len(t.OrderItems)
	if _, err := s.Revenue.ArchiveInTx(ctx, tx, dateKey, tableNumber, t.OrderItems); err != nil {
		return nil, err
	}

	t.Reset()
	if err := s.TableRepo.Save(ctx, tx, t); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage(err, "failed to commit close of table %d", tableNumber)
	}

	log.Printf("[Tables] Closed table %d: %d item(s), %s archived to %s (op %s)",
		tableNumber, itemCount, archivedTotal.StringFixed(2), dateKey, operationID)
	cache.InvalidateRevenueCaches(ctx)
	s.afterMutation(ctx, t)

	return &models.CloseOrderResult{
		TableNumber:   tableNumber,
		DateKey:       dateKey,
		OperationID:   operationID,
		ArchivedTotal: archivedTotal,
		ItemsArchived: itemCount,
	}, nil
}

func (s *TableOrderService) afterMutation(ctx context.Context, t *models.RestaurantTable) {
	cache.InvalidateTableCaches(ctx)
	if s.Hub != nil {
		s.Hub.Broadcast("table_updated", t)
	}
}
