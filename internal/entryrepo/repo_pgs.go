// Package entryrepo manages repository layer of entries.
package entryrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates entry repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns entry RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var e domain.Entry

	err := row.Scan(
		&e.ID,
		&e.TransactionID,
		&e.AccountID,
		&e.Amount,
		&e.Direction,
	)

	return e, err
}

const createQuery = `
INSERT INTO
    entries (id, transaction_id, account_id, amount, direction, position)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING id, transaction_id, account_id, amount, direction
`

// Create creates the entry at the given position of its transaction and then returns it.
//
// Errors are returned as reported by the driver so the caller can classify them.
func (r *RepoPGS) Create(ctx context.Context, e domain.Entry, position int) (domain.Entry, error) {
	row := r.db.QueryRowContext(ctx, createQuery,
		e.ID,
		e.TransactionID,
		e.AccountID,
		e.Amount,
		e.Direction,
		position,
	)

	return scanEntry(row)
}

const listByTransactionQuery = `
SELECT id, transaction_id, account_id, amount, direction FROM entries
WHERE transaction_id = $1
ORDER BY position
`

// ListByTransaction returns the entries of the given transaction in posting order.
func (r *RepoPGS) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Entry, error) {
	return r.list(ctx, listByTransactionQuery, transactionID)
}

const listQuery = `
SELECT id, transaction_id, account_id, amount, direction FROM entries
ORDER BY transaction_id, position
`

// List returns every entry grouped by transaction in posting order.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Entry, error) {
	return r.list(ctx, listQuery)
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Entry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Entry{}

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}
