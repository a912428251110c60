package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotel-backend/internal/apperr"
	"hotel-backend/internal/models"
)

type RoomAccountRepository struct {
	DB *pgxpool.Pool
}

func NewRoomAccountRepository(db *pgxpool.Pool) *RoomAccountRepository {
	return &RoomAccountRepository{DB: db}
}

func (r *RoomAccountRepository) Create(ctx context.Context, account *models.RoomAccount) error {
	doc, err := json.Marshal(account)
	if err != nil {
		return apperr.Storage(err, "failed to marshal account for room %d", account.RoomNumber)
	}

	query := `
		INSERT INTO room_accounts (id, room_number, status, doc, version)
		VALUES ($1, $2, $3, $4, 1)
		RETURNING created_at, updated_at
	`
	err = r.DB.QueryRow(ctx, query, account.ID, account.RoomNumber, account.Status, doc).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: the partial unique index on active accounts fired
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("room %d already has an active account", account.RoomNumber)
		}
		return storeErr(err, "failed to create account for room %d", account.RoomNumber)
	}
	return nil
}

// GetActiveByRoom returns the active account for a room along with the row
// version needed for a compare-and-swap update.
func (r *RoomAccountRepository) GetActiveByRoom(ctx context.Context, roomNumber int) (*models.RoomAccount, int, error) {
	query := `
		SELECT id, doc, version, created_at, updated_at
		FROM room_accounts
		WHERE room_number = $1 AND status = 'active'
	`
	var (
		id      string
		doc     []byte
		version int
	)
	account := &models.RoomAccount{}
	err := r.DB.QueryRow(ctx, query, roomNumber).
		Scan(&id, &doc, &version, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, apperr.NotFound("no active account for room %d", roomNumber)
		}
		return nil, 0, storeErr(err, "failed to load account for room %d", roomNumber)
	}

	createdAt, updatedAt := account.CreatedAt, account.UpdatedAt
	if err := json.Unmarshal(doc, account); err != nil {
		return nil, 0, apperr.Storage(err, "corrupt account document for room %d", roomNumber)
	}
	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt
	account.Normalize()
	return account, version, nil
}

// UpdateCAS writes the full document back, guarded by the version read at
// load time. A concurrent writer makes the update miss and the caller gets
// a conflict to retry from a fresh read.
func (r *RoomAccountRepository) UpdateCAS(ctx context.Context, account *models.RoomAccount, expectedVersion int) error {
	doc, err := json.Marshal(account)
	if err != nil {
		return apperr.Storage(err, "failed to marshal account %s", account.ID)
	}

	query := `
		UPDATE room_accounts
		SET doc = $1, status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
	`
	tag, err := r.DB.Exec(ctx, query, doc, account.Status, account.ID, expectedVersion)
	if err != nil {
		return storeErr(err, "failed to update account %s", account.ID)
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("account for room %d was modified concurrently", account.RoomNumber)
	}
	return nil
}

// ListActive returns every active room account, ordered by room number.
func (r *RoomAccountRepository) ListActive(ctx context.Context) ([]*models.RoomAccount, error) {
	query := `
		SELECT id, doc, created_at, updated_at
		FROM room_accounts
		WHERE status = 'active'
		ORDER BY room_number
	`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, storeErr(err, "failed to list room accounts")
	}
	defer rows.Close()

	var accounts []*models.RoomAccount
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		account := &models.RoomAccount{}
		if err := rows.Scan(&id, &doc, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, storeErr(err, "failed to scan room account")
		}
		createdAt, updatedAt := account.CreatedAt, account.UpdatedAt
		if err := json.Unmarshal(doc, account); err != nil {
			return nil, apperr.Storage(err, "corrupt account document %s", id)
		}
		account.ID = id
		account.CreatedAt = createdAt
		account.UpdatedAt = updatedAt
		account.Normalize()
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
