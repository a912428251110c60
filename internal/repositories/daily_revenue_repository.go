package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/models"
)

type DailyRevenueRepository struct {
	DB *pgxpool.Pool
}

func NewDailyRevenueRepository(db *pgxpool.Pool) *DailyRevenueRepository {
	return &DailyRevenueRepository{DB: db}
}

// Get loads the record for a date key. Not finding one is reported as
// NotFound; the archive path treats that as "start a fresh record".
func (r *DailyRevenueRepository) Get(ctx context.Context, q DBTX, dateKey string) (*models.DailyRevenueRecord, error) {
	query := `
		SELECT date_key, display_name, sold_items, total_revenue::text, closed, closed_at, created_at, updated_at
		FROM daily_revenue
		WHERE date_key = $1
	`
	return r.scanRecord(q.QueryRow(ctx, query, dateKey), dateKey)
}

// GetForUpdate locks the record row inside the caller's transaction so two
// concurrent archives serialize their merges instead of losing one.
func (r *DailyRevenueRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, dateKey string) (*models.DailyRevenueRecord, error) {
	query := `
		SELECT date_key, display_name, sold_items, total_revenue::text, closed, closed_at, created_at, updated_at
		FROM daily_revenue
		WHERE date_key = $1
		FOR UPDATE
	`
	return r.scanRecord(tx.QueryRow(ctx, query, dateKey), dateKey)
}

func (r *DailyRevenueRepository) scanRecord(row pgx.Row, dateKey string) (*models.DailyRevenueRecord, error) {
	var (
		items     []byte
		totalText string
	)
	rec := &models.DailyRevenueRecord{}
	err := row.Scan(&rec.DateKey, &rec.DisplayName, &items, &totalText, &rec.Closed, &rec.ClosedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("no revenue record for %s", dateKey)
		}
		return nil, storeErr(err, "failed to load revenue record %s", dateKey)
	}
	if err := json.Unmarshal(items, &rec.SoldItems); err != nil {
		return nil, apperr.Storage(err, "corrupt sold items on %s", dateKey)
	}
	total, err := decimal.NewFromString(totalText)
	if err != nil {
		return nil, apperr.Storage(err, "corrupt revenue total on %s", dateKey)
	}
	rec.TotalRevenue = total
	return rec, nil
}

// Upsert persists the record keyed by its date, creating it when absent.
func (r *DailyRevenueRepository) Upsert(ctx context.Context, q DBTX, rec *models.DailyRevenueRecord) error {
	items, err := json.Marshal(rec.SoldItems)
	if err != nil {
		return apperr.Storage(err, "failed to marshal sold items for %s", rec.DateKey)
	}
	if rec.SoldItems == nil {
		items = []byte("[]")
	}

	query := `
		INSERT INTO daily_revenue (date_key, display_name, sold_items, total_revenue, closed, closed_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		ON CONFLICT (date_key) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    sold_items = EXCLUDED.sold_items,
		    total_revenue = EXCLUDED.total_revenue,
		    closed = EXCLUDED.closed,
		    closed_at = EXCLUDED.closed_at,
		    updated_at = NOW()
	`
	_, err = q.Exec(ctx, query,
		rec.DateKey, rec.DisplayName, items, rec.TotalRevenue.String(), rec.Closed, rec.ClosedAt)
	if err != nil {
		return storeErr(err, "failed to upsert revenue record %s", rec.DateKey)
	}
	return nil
}

// List returns records newest first, bounded by limit (0 means all).
func (r *DailyRevenueRepository) List(ctx context.Context, limit int) ([]*models.DailyRevenueRecord, error) {
	query := `
		SELECT date_key, display_name, sold_items, total_revenue::text, closed, closed_at, created_at, updated_at
		FROM daily_revenue
		ORDER BY to_date(date_key, 'DD_MM_YYYY') DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "failed to list revenue records")
	}
	defer rows.Close()

	var records []*models.DailyRevenueRecord
	for rows.Next() {
		var (
			items     []byte
			totalText string
		)
		rec := &models.DailyRevenueRecord{}
		if err := rows.Scan(&rec.DateKey, &rec.DisplayName, &items, &totalText, &rec.Closed, &rec.ClosedAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, storeErr(err, "failed to scan revenue record")
		}
		if err := json.Unmarshal(items, &rec.SoldItems); err != nil {
			return nil, apperr.Storage(err, "corrupt sold items on %s", rec.DateKey)
		}
		total, err := decimal.NewFromString(totalText)
		if err != nil {
			return nil, apperr.Storage(err, "corrupt revenue total on %s", rec.DateKey)
		}
		rec.TotalRevenue = total
		records = append(records, rec)
	}
	return records, rows.Err()
}
