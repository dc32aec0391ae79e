package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresLedger appends leads to the relational database. The leads table
// carries a UNIQUE constraint on invoice_id, so a duplicate append fails at
// the database rather than silently producing a second row.
type PostgresLedger struct {
	pool rowQuerier
}

// NewPostgresLedger initializes a ledger backed by pgxpool.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	if pool == nil {
		panic("ledger: pgx pool required")
	}
	return &PostgresLedger{pool: pool}
}

func newPostgresLedgerWithExec(exec rowQuerier) *PostgresLedger {
	if exec == nil {
		panic("ledger: exec required")
	}
	return &PostgresLedger{pool: exec}
}

var _ Ledger = (*PostgresLedger)(nil)

// Append inserts a new lead row.
func (l *PostgresLedger) Append(ctx context.Context, lead *Lead) error {
	if lead.Phone == "" {
		return ErrMissingPhone
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO leads (invoice_id, phone, website_type, pages, budget, price, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := l.pool.Exec(ctx, query,
		lead.InvoiceID,
		lead.Phone,
		lead.WebsiteType,
		lead.Pages,
		lead.Budget,
		lead.Price,
		lead.Status,
		lead.Note,
		lead.CreatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateInvoice
		}
		return fmt.Errorf("ledger: insert failed: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
