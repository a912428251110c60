package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/cache"
	"hotel-backend/internal/metrics"
	"hotel-backend/internal/models"
	"hotel-backend/internal/timeutil"
)

const dayCloseLockKey = "locks:day-close"

// BackupHook receives the closed revenue record after a successful day
// close. Failures are logged, never propagated: the close already happened.
type BackupHook func(ctx context.Context, record *models.DailyRevenueRecord)

// DayCloseService coordinates the end-of-day sweep: every open table is
// archived into today's revenue record and reset, then the day is marked
// closed. Tables are processed in their own transactions so one poisoned
// order cannot wedge the whole close.
type DayCloseService struct {
	Revenue *RevenueService
	Backup  BackupHook

	tables  *TableOrderService
	localMu sync.Mutex
	nowFn   func() time.Time
}

func NewDayCloseService(tables *TableOrderService, revenue *RevenueService, backup BackupHook) *DayCloseService {
	return &DayCloseService{
		Revenue: revenue,
		Backup:  backup,
		tables:  tables,
		nowFn:   timeutil.Now,
	}
}

// CloseDay archives and frees every occupied table under today's date key,
// then marks the day closed. Concurrent closes are serialized: a Redis lock
// when Redis is up, a process-local mutex otherwise.
func (s *DayCloseService) CloseDay(ctx context.Context) (*models.CloseDaySummary, error) {
	release, err := s.acquireLock(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.nowFn()
	dateKey := timeutil.DateKey(now)
	summary := &models.CloseDaySummary{
		DateKey:     dateKey,
		OperationID: uuid.NewString(),
		ClosedAt:    now,
	}

	occupied, err := s.tables.TableRepo.ListOccupied(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range occupied {
		result, err := s.tables.close(ctx, t.TableNumber, dateKey)
		if err != nil {
			// A table emptied between the list and the close is not a
			// failure, someone just beat us to it.
			if apperr.KindOf(err) == apperr.KindInvalidState {
				continue
			}
			log.Printf("[DayClose] Table %d failed during close %s: %v", t.TableNumber, summary.OperationID, err)
			summary.Failed = append(summary.Failed, t.TableNumber)
			continue
		}
		summary.TablesFreed++
		summary.OrdersArchived += result.ItemsArchived
		total = total.Add(result.ArchivedTotal)
	}
	summary.TotalArchived = total

	// Bulk sweep over the remaining rows: tables that never got an order
	// can still carry a room assignment, and those must not leak into the
	// next service day. Failed tables are spared so their orders survive
	// for a retry.
	reset, err := s.tables.TableRepo.ResetAll(ctx, s.tables.DB, summary.Failed)
	if err != nil {
		return nil, err
	}
	summary.TablesReset = reset

	record, err := s.Revenue.MarkClosed(ctx, dateKey, now)
	if err != nil {
		return nil, err
	}

	cache.InvalidateTableCaches(ctx)
	cache.InvalidateRevenueCaches(ctx)
	metrics.DayClosesTotal.Inc()
	log.Printf("[DayClose] %s closed: %d tables freed, %d swept, %d failed, total %s (op %s)",
		dateKey, summary.TablesFreed, reset, len(summary.Failed), total.StringFixed(2), summary.OperationID)

	if s.Backup != nil && record != nil {
		s.Backup(ctx, record)
	}
	return summary, nil
}

func (s *DayCloseService) acquireLock(ctx context.Context) (func(), error) {
	locker := cache.Locker()
	if locker == nil {
		s.localMu.Lock()
		return s.localMu.Unlock, nil
	}
	lock, err := locker.Obtain(ctx, dayCloseLockKey, 2*time.Minute, nil)
	if err != nil {
		if err == redislock.ErrNotObtained {
			return nil, apperr.Conflict("a day close is already running")
		}
		// Redis flaked mid-flight; fall back to the local mutex rather
		// than blocking the close.
		log.Printf("[DayClose] Lock unavailable, using local mutex: %v", err)
		s.localMu.Lock()
		return s.localMu.Unlock, nil
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil {
			log.Printf("[DayClose] Lock release: %v", err)
		}
	}, nil
}
