package repomanager

import (
	"context"
	"database/sql"

	"github.com/gramolapp/gramola/internal/dbx"
	"github.com/gramolapp/gramola/internal/server/migrations"
	"github.com/gramolapp/gramola/internal/server/repositories/transactions"
	"github.com/gramolapp/gramola/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresManager vends PostgreSQL-backed repositories and runs the
// embedded goose migrations.
type PostgresManager struct {
	db *sql.DB
}

func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresManager{db: db}, nil
}

func (m *PostgresManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

func (m *PostgresManager) Transactions() transactions.Repository {
	return transactions.NewPostgresRepository(m.db)
}

func (m *PostgresManager) InTransaction(ctx context.Context, fn func(tm Manager) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(&txManager{tx: tx})
	})
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}

// txManager vends repositories bound to a running transaction.
type txManager struct {
	tx dbx.DBTX
}

func (m *txManager) Users() users.Repository {
	return users.NewPostgresRepository(m.tx)
}

func (m *txManager) Transactions() transactions.Repository {
	return transactions.NewPostgresRepository(m.tx)
}

// InTransaction inside a transaction reuses the running one.
func (m *txManager) InTransaction(ctx context.Context, fn func(tm Manager) error) error {
	return fn(m)
}

func (m *txManager) RunMigrations(ctx context.Context) error { return nil }

func (m *txManager) Close() error { return nil }
