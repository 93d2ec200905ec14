// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/entryrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// PostgreSQL error codes.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS bound to an already open transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (id, name, date)
VALUES
    ($1, $2, $3)
RETURNING id, name, date
`

// Create creates the transaction row without its entries and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.Transaction) (domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, createQuery, arg.ID, arg.Name, arg.Date)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Date,
	)

	return t, err
}

const getQuery = `
SELECT 
	id, name, date 
FROM transactions
WHERE id = $1
`

// Get returns the transaction with the given id together with its entries.
func (r *RepoPGS) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, domain.ErrTransactionNotFound
		}

		l.Error().Err(err).Send()

		return t, errorspkg.ErrInternal
	}

	t.Entries, err = entryrepo.NewRepoPGS(r.db).ListByTransaction(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	return t, nil
}

const listQuery = `
SELECT 
	id, name, date 
FROM transactions
ORDER BY date, id
`

// List returns all transactions with their entries.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.Name, &t.Date); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	entries, err := entryrepo.NewRepoPGS(r.db).List(ctx)
	if err != nil {
		return nil, err
	}

	byTransaction := make(map[uuid.UUID][]domain.Entry, len(items))
	for _, e := range entries {
		byTransaction[e.TransactionID] = append(byTransaction[e.TransactionID], e)
	}

	for i := range items {
		items[i].Entries = byTransaction[items[i].ID]
	}

	return items, nil
}

// Commit writes the transaction, its entries and the balance updates of the touched
// accounts within a single serializable db transaction.
//
// Balances are changed relative to the locked rows, so concurrent commits touching
// the same accounts never lose an update. Any failure rolls back all writes.
func (r *RepoPGS) Commit(ctx context.Context, arg domain.CommitParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransactionResult

	tx, err := r.conn.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		l.Error().Err(err).Msg("begin commit")
		return result, domain.ErrStorageFailure
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Msg("rollback commit")
		}
	}()

	txRepo := NewTxRepoPGS(tx)
	entryRepo := entryrepo.NewRepoPGS(tx)
	accountRepo := accountrepo.NewRepoPGS(tx)

	result.Transaction, err = txRepo.Create(ctx, arg.Transaction)
	if err != nil {
		return domain.TransactionResult{}, commitError(l, err, uuid.Nil)
	}

	result.Transaction.Entries = make([]domain.Entry, 0, len(arg.Transaction.Entries))

	for i, e := range arg.Transaction.Entries {
		created, err := entryRepo.Create(ctx, e, i)
		if err != nil {
			return domain.TransactionResult{}, commitError(l, err, e.AccountID)
		}

		result.Transaction.Entries = append(result.Transaction.Entries, created)
	}

	// To avoid deadlocks lock account rows in consistent id order
	updates := make([]domain.BalanceUpdate, len(arg.Balances))
	copy(updates, arg.Balances)
	sort.Slice(updates, func(i, j int) bool {
		return bytes.Compare(updates[i].AccountID[:], updates[j].AccountID[:]) < 0
	})

	updated := make(map[uuid.UUID]domain.Account, len(updates))

	for _, u := range updates {
		account, err := accountRepo.AddBalance(ctx, u.Delta, u.AccountID)
		if err != nil {
			return domain.TransactionResult{}, commitError(l, err, u.AccountID)
		}

		updated[u.AccountID] = account
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Msg("commit")
		return domain.TransactionResult{}, domain.ErrStorageFailure
	}

	// Report accounts in the order the caller computed them
	result.Accounts = make([]domain.Account, 0, len(arg.Balances))
	for _, u := range arg.Balances {
		result.Accounts = append(result.Accounts, updated[u.AccountID])
	}

	return result, nil
}

// commitError classifies a failed write of a commit.
func commitError(l *zerolog.Logger, err error, accountID uuid.UUID) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		l.Info().Err(err).Str("account_id", accountID.String()).Send()
		return domain.NewAccountNotFoundError(accountID)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			l.Info().Err(err).Send()
			return domain.ErrTransactionAlreadyExists
		case foreignKeyViolation:
			if pqErr.Constraint == "entries_account_id_fkey" {
				l.Info().Err(err).Str("account_id", accountID.String()).Send()
				return domain.NewAccountNotFoundError(accountID)
			}
		}
	}

	l.Error().Err(err).Send()

	return domain.ErrStorageFailure
}
