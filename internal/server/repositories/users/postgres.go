package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gramolapp/gramola/internal/common"
	"github.com/gramolapp/gramola/internal/dbx"
	"github.com/gramolapp/gramola/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			email, password_hash, signature, bar_name, bar_address,
			latitude, longitude, song_price, subscription_expiry,
			access_token_enc, refresh_token_enc,
			token_id, token_created_at, token_consumed_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		`

	_, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Signature, user.BarName, user.BarAddress,
		user.Latitude, user.Longitude, user.SongPrice, user.SubscriptionExpiry,
		user.AccessTokenEnc, user.RefreshTokenEnc,
		user.Token.ID, user.Token.CreatedAt, user.Token.ConsumedAt, user.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT email, password_hash, signature, bar_name, bar_address,
		       latitude, longitude, song_price, subscription_expiry,
		       access_token_enc, refresh_token_enc,
		       token_id, token_created_at, token_consumed_at, created_at
		FROM users
		WHERE email = $1
		`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email, &user.PasswordHash, &user.Signature, &user.BarName, &user.BarAddress,
		&user.Latitude, &user.Longitude, &user.SongPrice, &user.SubscriptionExpiry,
		&user.AccessTokenEnc, &user.RefreshTokenEnc,
		&user.Token.ID, &user.Token.CreatedAt, &user.Token.ConsumedAt, &user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET password_hash = $2, signature = $3, bar_name = $4, bar_address = $5,
		    latitude = $6, longitude = $7, song_price = $8, subscription_expiry = $9,
		    access_token_enc = $10, refresh_token_enc = $11,
		    token_id = $12, token_created_at = $13, token_consumed_at = $14
		WHERE email = $1
		`

	res, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Signature, user.BarName, user.BarAddress,
		user.Latitude, user.Longitude, user.SongPrice, user.SubscriptionExpiry,
		user.AccessTokenEnc, user.RefreshTokenEnc,
		user.Token.ID, user.Token.CreatedAt, user.Token.ConsumedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
