package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/dbx"
	"github.com/gramolapp/gramola/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, payload, email, track_uri, confirmed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID, []byte(tx.Payload), tx.Email, tx.TrackURI, tx.ConfirmedAt, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `
		SELECT id, payload, email, track_uri, confirmed_at, created_at
		FROM transactions
		WHERE id = $1
		`

	tx := &models.Transaction{}
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tx.ID, &payload, &tx.Email, &tx.TrackURI, &tx.ConfirmedAt, &tx.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	tx.Payload = payload
	return tx, nil
}

// ClaimConfirmation relies on a single conditional UPDATE so that two
// concurrent confirmations of the same transaction cannot both win.
func (r *PostgresRepository) ClaimConfirmation(ctx context.Context, id, email, trackURI string, at time.Time) error {
	query := `
		UPDATE transactions
		SET email        = CASE WHEN email = '' THEN $2 ELSE email END,
		    track_uri    = CASE WHEN $3 <> '' THEN $3 ELSE track_uri END,
		    confirmed_at = $4
		WHERE id = $1 AND confirmed_at IS NULL
		`

	res, err := r.db.ExecContext(ctx, query, id, email, trackURI, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 1 {
		return nil
	}

	// The claim did not land: either the row is missing or someone else
	// already confirmed it.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return common.ErrConflict
}
