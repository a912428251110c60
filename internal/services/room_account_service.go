package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/billing"
	"hotel-backend/internal/cache"
	"hotel-backend/internal/metrics"
	"hotel-backend/internal/models"
	"hotel-backend/internal/repositories"
	"hotel-backend/internal/timeutil"
)

// RoomAccountService owns room billing accounts: creation, field updates
// with recomputed totals, the clear operation, and routing of restaurant
// orders onto the account's service buckets.
type RoomAccountService struct {
	DB          *pgxpool.Pool
	AccountRepo *repositories.RoomAccountRepository
	TableRepo   *repositories.RestaurantTableRepository

	// nowFn lets tests pin the wall clock the bucket cutoff reads.
	nowFn func() time.Time
}

func NewRoomAccountService(db *pgxpool.Pool, accountRepo *repositories.RoomAccountRepository, tableRepo *repositories.RestaurantTableRepository) *RoomAccountService {
	return &RoomAccountService{
		DB:          db,
		AccountRepo: accountRepo,
		TableRepo:   tableRepo,
		nowFn:       timeutil.Now,
	}
}

// Create opens a new active account for a room. Fails with a conflict when
// the room already has one.
func (s *RoomAccountService) Create(ctx context.Context, req *models.CreateRoomAccountRequest) (*models.RoomAccount, error) {
	account := &models.RoomAccount{
		ID:             uuid.NewString(),
		RoomNumber:     req.RoomNumber,
		GuestName:      req.GuestName,
		Adults:         req.Adults,
		Children:       req.Children,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Nights:         req.Nights,
		Services:       req.Services,
		MinibarNotes:   req.MinibarNotes,
		Extras:         req.Extras,
		Transfer:       req.Transfer,
		AdvancePayment: req.AdvancePayment,
		Notes:          req.Notes,
		Status:         models.AccountStatusActive,
	}
	account.Normalize()
	billing.CalculateAccount(account)

	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	cache.InvalidateAccountCaches(ctx)
	log.Printf("[Accounts] Opened account %s for room %d", account.ID, account.RoomNumber)
	return account, nil
}

// GetByRoom returns the active account for a room.
func (s *RoomAccountService) GetByRoom(ctx context.Context, roomNumber int) (*models.RoomAccount, error) {
	account, _, err := s.AccountRepo.GetActiveByRoom(ctx, roomNumber)
	return account, err
}

// ListActive returns every active account.
// ListActive returns every open account, served from cache when possible.
func (s *RoomAccountService) ListActive(ctx context.Context) ([]*models.RoomAccount, error) {
	if data, ok := cache.GetCached(ctx, cache.AccountsListKey); ok {
		var accounts []*models.RoomAccount
		if err := json.Unmarshal(data, &accounts); err == nil {
			return accounts, nil
		}
	}

	accounts, err := s.AccountRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(accounts); err == nil {
		cache.SetCached(ctx, cache.AccountsListKey, data, time.Minute)
	}
	return accounts, nil
}

// Update merges a field patch into the room's account, recomputes the
// totals snapshot and persists. When the room has no active account yet the
// first save creates one, so the autosave path never needs a separate
// create call.
func (s *RoomAccountService) Update(ctx context.Context, roomNumber int, req *models.UpdateRoomAccountRequest, source string) (*models.RoomAccount, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		account, version, err := s.AccountRepo.GetActiveByRoom(ctx, roomNumber)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return s.createFromPatch(ctx, roomNumber, req, source)
			}
			return nil, err
		}

		applyAccountPatch(account, req)
		account.Normalize()
		billing.CalculateAccount(account)
		account.UpdatedAt = timeutil.Now()

		if err := s.AccountRepo.UpdateCAS(ctx, account, version); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				lastErr = err
				continue
			}
			return nil, err
		}
		cache.InvalidateAccountCaches(ctx)
		metrics.AccountSavesTotal.WithLabelValues(source).Inc()
		return account, nil
	}
	return nil, lastErr
}

func (s *RoomAccountService) createFromPatch(ctx context.Context, roomNumber int, req *models.UpdateRoomAccountRequest, source string) (*models.RoomAccount, error) {
	create := &models.CreateRoomAccountRequest{RoomNumber: roomNumber, Services: req.Services, MinibarNotes: req.MinibarNotes}
	if req.GuestName != nil {
		create.GuestName = *req.GuestName
	}
	if req.Adults != nil {
		create.Adults = *req.Adults
	}
	if req.Children != nil {
		create.Children = *req.Children
	}
	if req.CheckIn != nil {
		create.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		create.CheckOut = *req.CheckOut
	}
	if req.Nights != nil {
		create.Nights = *req.Nights
	}
	if req.Extras != nil {
		create.Extras = *req.Extras
	}
	if req.Transfer != nil {
		create.Transfer = *req.Transfer
	}
	if req.AdvancePayment != nil {
		create.AdvancePayment = *req.AdvancePayment
	}
	if req.Notes != nil {
		create.Notes = *req.Notes
	}
	account, err := s.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	metrics.AccountSavesTotal.WithLabelValues(source).Inc()
	return account, nil
}

func applyAccountPatch(account *models.RoomAccount, req *models.UpdateRoomAccountRequest) {
	if req.GuestName != nil {
		account.GuestName = *req.GuestName
	}
	if req.Adults != nil {
		account.Adults = *req.Adults
	}
	if req.Children != nil {
		account.Children = *req.Children
	}
	if req.CheckIn != nil {
		account.CheckIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		account.CheckOut = *req.CheckOut
	}
	if req.Nights != nil {
		account.Nights = *req.Nights
	}
	if req.Services != nil {
		account.Services = req.Services
	}
	if req.MinibarNotes != nil {
		account.MinibarNotes = req.MinibarNotes
	}
	if req.Extras != nil {
		account.Extras = *req.Extras
	}
	if req.Transfer != nil {
		account.Transfer = *req.Transfer
	}
	if req.AdvancePayment != nil {
		account.AdvancePayment = *req.AdvancePayment
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
}

// Clear zeroes every service bucket, adjustment field and derived total on
// the room's account.
func (s *RoomAccountService) Clear(ctx context.Context, roomNumber int) (*models.RoomAccount, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		account, version, err := s.AccountRepo.GetActiveByRoom(ctx, roomNumber)
		if err != nil {
			return nil, err
		}

		account.ClearServices()
		billing.CalculateAccount(account)
		account.UpdatedAt = timeutil.Now()

		if err := s.AccountRepo.UpdateCAS(ctx, account, version); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				lastErr = err
				continue
			}
			return nil, err
		}
		cache.InvalidateAccountCaches(ctx)
		log.Printf("[Accounts] Cleared account for room %d", roomNumber)
		return account, nil
	}
	return nil, lastErr
}

// SelectOrderBucket decides which service bucket an order lands in: orders
// with no covers are bar sales whatever the hour; otherwise the 18:30
// cutoff splits lunch from dinner.
func SelectOrderBucket(covers int, now time.Time) string {
	if covers == 0 {
		return models.BucketBar
	}
	if timeutil.IsDinnerService(now) {
		return models.BucketDinner
	}
	return models.BucketLunch
}

// AssignOrder copies a table order's value onto the room's ledger. The
// update is additive within (bucket, date); the table keeps its order and
// only gains the room assignment, so the same sale can still be archived
// when the table is eventually closed.
func (s *RoomAccountService) AssignOrder(ctx context.Context, roomNumber int, req *models.AssignOrderRequest) (*models.AssignOrderResult, error) {
	date := req.OperationDate
	if date == "" {
		date = s.nowFn().Format(timeutil.DisplayDateLayout)
	}
	bucket := SelectOrderBucket(req.Covers, s.nowFn())

	var result *models.AssignOrderResult
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		account, version, err := s.AccountRepo.GetActiveByRoom(ctx, roomNumber)
		if err != nil {
			return nil, err
		}

		account.AddToBucket(bucket, date, req.OrderTotal)
		billing.CalculateAccount(account)
		account.UpdatedAt = timeutil.Now()

		if err := s.AccountRepo.UpdateCAS(ctx, account, version); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				lastErr = err
				continue
			}
			return nil, err
		}

		result = &models.AssignOrderResult{
			RoomNumber: roomNumber,
			Bucket:     bucket,
			Date:       date,
			NewAmount:  models.ParseAmount(account.Services[bucket][date]),
			Totals:     account.Calculations,
		}
		lastErr = nil
		break
	}
	if result == nil {
		return nil, lastErr
	}

	// Point the table at the room without touching its order contents.
	if req.TableNumber > 0 {
		if err := s.assignTableToRoom(ctx, req.TableNumber, roomNumber); err != nil {
			log.Printf("[Accounts] Order assigned to room %d but table %d link failed: %v", roomNumber, req.TableNumber, err)
		}
	}

	cache.InvalidateAccountCaches(ctx)
	metrics.OrdersAssignedTotal.WithLabelValues(bucket).Inc()
	log.Printf("[Accounts] Routed %s from table %d to room %d (%s, %s)",
		req.OrderTotal.StringFixed(2), req.TableNumber, roomNumber, bucket, date)
	return result, nil
}

func (s *RoomAccountService) assignTableToRoom(ctx context.Context, tableNumber, roomNumber int) error {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		t, err := s.TableRepo.Get(ctx, s.DB, tableNumber)
		if err != nil {
			return err
		}
		t.AssignedRoom = roomNumber
		if err := s.TableRepo.Save(ctx, s.DB, t); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				lastErr = err
				continue
			}
			return err
		}
		cache.InvalidateTableCaches(ctx)
		return nil
	}
	return lastErr
}

// Checkout soft-closes the room's account.
func (s *RoomAccountService) Checkout(ctx context.Context, roomNumber int) (*models.RoomAccount, error) {
	account, version, err := s.AccountRepo.GetActiveByRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}
	account.Status = models.AccountStatusCheckedOut
	account.UpdatedAt = timeutil.Now()
	if err := s.AccountRepo.UpdateCAS(ctx, account, version); err != nil {
		return nil, err
	}
	cache.InvalidateAccountCaches(ctx)
	log.Printf("[Accounts] Checked out room %d (final %s)", roomNumber, account.Calculations.FinalTotal.StringFixed(2))
	return account, nil
}

// OutstandingBalance is a convenience used by the advance-payment flow.
func (s *RoomAccountService) OutstandingBalance(ctx context.Context, roomNumber int) (decimal.Decimal, error) {
	account, err := s.GetByRoom(ctx, roomNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Calculations.FinalTotal, nil
}
