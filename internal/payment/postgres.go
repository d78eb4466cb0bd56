package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shadows-market/storefront/pkg/models"
)

const paymentsSchema = `
CREATE TABLE IF NOT EXISTS payments (
	id         TEXT PRIMARY KEY,
	order_id   TEXT NOT NULL UNIQUE,
	amount     NUMERIC(12,2) NOT NULL,
	method     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	payer      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresRepo stores payment records in Postgres. The UNIQUE constraint on
// order_id is the durable idempotency guard; a second insert for the same
// order fails instead of duplicating the record.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(ctx context.Context, dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, paymentsSchema); err != nil {
		return nil, fmt.Errorf("create payments table: %w", err)
	}
	return &PostgresRepo{db: db}, nil
}

func (r *PostgresRepo) Close() error { return r.db.Close() }

func (r *PostgresRepo) Create(ctx context.Context, record *models.PaymentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, order_id, amount, method, outcome, payer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.OrderID, record.Amount, record.Method, record.Outcome,
		record.Payer, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PostgresRepo) FindEffectiveByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, order_id, amount, method, outcome, payer, created_at
		 FROM payments WHERE order_id = $1`,
		orderID).Scan(&record.ID, &record.OrderID, &record.Amount, &record.Method,
		&record.Outcome, &record.Payer, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select payment: %w", err)
	}
	return &record, nil
}
