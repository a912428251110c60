package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/cache"
	"hotel-backend/internal/metrics"
	"hotel-backend/internal/models"
	"hotel-backend/internal/repositories"
	"hotel-backend/internal/timeutil"
)

// RevenueService owns the daily revenue archive: the append/merge sink that
// turns transient table orders into one durable record per calendar day.
type RevenueService struct {
	DB          *pgxpool.Pool
	RevenueRepo *repositories.DailyRevenueRepository
}

func NewRevenueService(db *pgxpool.Pool, revenueRepo *repositories.DailyRevenueRepository) *RevenueService {
	return &RevenueService{
		DB:          db,
		RevenueRepo: revenueRepo,
	}
}

// Archive folds a table's order items into the record for dateKey inside its
// own transaction. The merge itself carries no sale-event dedup: retrying
// the same call double-counts, which is why the close paths guard it with an
// operation lock instead.
func (s *RevenueService) Archive(ctx context.Context, dateKey string, tableNumber int, items []models.OrderLine) (*models.DailyRevenueRecord, error) {
	if len(items) == 0 {
		return nil, apperr.InvalidState("nothing to archive for table %d", tableNumber)
	}
	if _, err := timeutil.ParseDateKey(dateKey); err != nil {
		return nil, apperr.Validation("invalid date key %q", dateKey)
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to open archive transaction")
	}
	defer tx.Rollback(ctx)

	rec, err := s.ArchiveInTx(ctx, tx, dateKey, tableNumber, items)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage(err, "failed to commit archive for %s", dateKey)
	}

	cache.InvalidateRevenueCaches(ctx)
	metrics.OrdersArchivedTotal.Inc()
	return rec, nil
}

// ArchiveInTx performs the merge inside a caller-owned transaction. The
// record row is locked for the duration so concurrent archives into the same
// day serialize instead of losing entries. Used by the table-close and
// day-close paths, which pair it with the table reset in the same tx.
func (s *RevenueService) ArchiveInTx(ctx context.Context, tx pgx.Tx, dateKey string, tableNumber int, items []models.OrderLine) (*models.DailyRevenueRecord, error) {
	rec, err := s.RevenueRepo.GetForUpdate(ctx, tx, dateKey)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, err
		}
		rec = &models.DailyRevenueRecord{
			DateKey:     dateKey,
			DisplayName: timeutil.DisplayDate(dateKey),
		}
	}

	rec.MergeOrderItems(tableNumber, items, timeutil.Now())
	if err := s.RevenueRepo.Upsert(ctx, tx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns one day's record, served from cache when possible.
func (s *RevenueService) Get(ctx context.Context, dateKey string) (*models.DailyRevenueRecord, error) {
	cacheKey := cache.RevenueKeyFmt + dateKey
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		rec := &models.DailyRevenueRecord{}
		if err := json.Unmarshal(data, rec); err == nil {
			return rec, nil
		}
	}

	rec, err := s.RevenueRepo.Get(ctx, s.DB, dateKey)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rec); err == nil {
		cache.SetCached(ctx, cacheKey, data, 5*time.Minute)
	}
	return rec, nil
}

// List returns records newest first.
func (s *RevenueService) List(ctx context.Context, limit int) ([]*models.DailyRevenueRecord, error) {
	return s.RevenueRepo.List(ctx, limit)
}

// MarkClosed flags the day's record closed, creating an empty record when no
// sales occurred, and returns it. The read and write run in one transaction
// with the row locked: a table close committing in between must not have its
// freshly archived items overwritten by a stale copy.
func (s *RevenueService) MarkClosed(ctx context.Context, dateKey string, closedAt time.Time) (*models.DailyRevenueRecord, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, apperr.Storage(err, "failed to open close transaction")
	}
	defer tx.Rollback(ctx)

	rec, err := s.RevenueRepo.GetForUpdate(ctx, tx, dateKey)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, err
		}
		rec = &models.DailyRevenueRecord{
			DateKey:     dateKey,
			DisplayName: timeutil.DisplayDate(dateKey),
		}
	}

	rec.Closed = true
	rec.ClosedAt = &closedAt
	if err := s.RevenueRepo.Upsert(ctx, tx, rec); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Storage(err, "failed to commit close of %s", dateKey)
	}
	cache.InvalidateRevenueCaches(ctx)
	log.Printf("[Revenue] Day %s closed, total %s", rec.DateKey, rec.TotalRevenue.StringFixed(2))
	return rec, nil
}
