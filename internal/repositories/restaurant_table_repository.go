package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/models"
)

type RestaurantTableRepository struct {
	DB *pgxpool.Pool
}

func NewRestaurantTableRepository(db *pgxpool.Pool) *RestaurantTableRepository {
	return &RestaurantTableRepository{DB: db}
}

// EnsureTables seeds the fixed set of numbered tables. Existing rows are
// left alone, so this is safe to run on every startup.
func (r *RestaurantTableRepository) EnsureTables(ctx context.Context, count int) error {
	query := `
		INSERT INTO restaurant_tables (table_number, assigned_room, status, order_items, order_total, version)
		SELECT n, 0, 'available', '[]'::jsonb, 0, 1
		FROM generate_series(1, $1) AS n
		ON CONFLICT (table_number) DO NOTHING
	`
	if _, err := r.DB.Exec(ctx, query, count); err != nil {
		return storeErr(err, "failed to seed restaurant tables")
	}
	return nil
}

func (r *RestaurantTableRepository) Get(ctx context.Context, q DBTX, tableNumber int) (*models.RestaurantTable, error) {
	query := `
		SELECT table_number, assigned_room, status, order_items, order_total::text, version, updated_at
		FROM restaurant_tables
		WHERE table_number = $1
	`
	return r.scanTable(q.QueryRow(ctx, query, tableNumber), tableNumber)
}

// GetForUpdate locks the table row for the duration of the caller's
// transaction. Used by the close path so archive and reset see one state.
func (r *RestaurantTableRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, tableNumber int) (*models.RestaurantTable, error) {
	query := `
		SELECT table_number, assigned_room, status, order_items, order_total::text, version, updated_at
		FROM restaurant_tables
		WHERE table_number = $1
		FOR UPDATE
	`
	return r.scanTable(tx.QueryRow(ctx, query, tableNumber), tableNumber)
}

func (r *RestaurantTableRepository) scanTable(row pgx.Row, tableNumber int) (*models.RestaurantTable, error) {
	var (
		items     []byte
		totalText string
	)
	t := &models.RestaurantTable{}
	err := row.Scan(&t.TableNumber, &t.AssignedRoom, &t.Status, &items, &totalText, &t.Version, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("table %d not found", tableNumber)
		}
		return nil, storeErr(err, "failed to load table %d", tableNumber)
	}
	if err := json.Unmarshal(items, &t.OrderItems); err != nil {
		return nil, apperr.Storage(err, "corrupt order items on table %d", tableNumber)
	}
	total, err := decimal.NewFromString(totalText)
	if err != nil {
		return nil, apperr.Storage(err, "corrupt order total on table %d", tableNumber)
	}
	t.OrderTotal = total
	return t, nil
}

// Save writes the table document back with a compare-and-swap on version.
func (r *RestaurantTableRepository) Save(ctx context.Context, q DBTX, t *models.RestaurantTable) error {
	items, err := json.Marshal(t.OrderItems)
	if err != nil {
		return apperr.Storage(err, "failed to marshal order items for table %d", t.TableNumber)
	}

	query := `
		UPDATE restaurant_tables
		SET assigned_room = $1, status = $2, order_items = $3, order_total = $4::numeric,
		    version = version + 1, updated_at = NOW()
		WHERE table_number = $5 AND version = $6
	`
	tag, err := q.Exec(ctx, query,
		t.AssignedRoom, t.Status, items, t.OrderTotal.String(), t.TableNumber, t.Version)
	if err != nil {
		return storeErr(err, "failed to save table %d", t.TableNumber)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("table %d was modified concurrently", t.TableNumber)
	}
	t.Version++
	return nil
}

func (r *RestaurantTableRepository) List(ctx context.Context) ([]*models.RestaurantTable, error) {
	return r.list(ctx, "")
}

func (r *RestaurantTableRepository) ListOccupied(ctx context.Context) ([]*models.RestaurantTable, error) {
	return r.list(ctx, "WHERE status = 'occupied'")
}

func (r *RestaurantTableRepository) list(ctx context.Context, where string) ([]*models.RestaurantTable, error) {
	query := fmt.Sprintf(`
		SELECT table_number, assigned_room, status, order_items, order_total::text, version, updated_at
		FROM restaurant_tables
		%s
		ORDER BY table_number
	`, where)

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list tables")
	}
	defer rows.Close()

	var tables []*models.RestaurantTable
	for rows.Next() {
		var (
			items     []byte
			totalText string
		)
		t := &models.RestaurantTable{}
		if err := rows.Scan(&t.TableNumber, &t.AssignedRoom, &t.Status, &items, &totalText, &t.Version, &t.UpdatedAt); err != nil {
			return nil, storeErr(err, "failed to scan table")
		}
		if err := json.Unmarshal(items, &t.OrderItems); err != nil {
			return nil, apperr.Storage(err, "corrupt order items on table %d", t.TableNumber)
		}
		total, err := decimal.NewFromString(totalText)
		if err != nil {
			return nil, apperr.Storage(err, "corrupt order total on table %d", t.TableNumber)
		}
		t.OrderTotal = total
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// ResetAll clears every table regardless of whether it carries an order:
// the day-close bulk reset. Room assignments on otherwise empty tables are
// wiped too. Tables in exclude are left untouched so a failed close keeps
// its order for a retry. Returns the number of rows that actually changed.
func (r *RestaurantTableRepository) ResetAll(ctx context.Context, q DBTX, exclude []int) (int, error) {
	if exclude == nil {
		exclude = []int{}
	}
	query := `
		UPDATE restaurant_tables
		SET assigned_room = 0, status = 'available', order_items = '[]'::jsonb,
		    order_total = 0, version = version + 1, updated_at = NOW()
		WHERE (status <> 'available' OR assigned_room <> 0 OR order_total <> 0)
		  AND NOT (table_number = ANY($1))
	`
	tag, err := q.Exec(ctx, query, exclude)
	if err != nil {
		return 0, storeErr(err, "failed to reset tables")
	}
	return int(tag.RowsAffected()), nil
}
