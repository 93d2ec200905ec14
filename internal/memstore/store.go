// Package memstore is an in-memory ledger store.
//
// All state lives behind one RWMutex: a commit holds the write lock for the whole
// unit and checks every referenced account before mutating anything, so readers
// observe either none or all of a commit.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Store holds accounts, transactions and entries in memory.
type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]*domain.Account
	transactions map[uuid.UUID]*domain.Transaction
	entryIDs     map[uuid.UUID]struct{}
	now          func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]*domain.Account),
		transactions: make(map[uuid.UUID]*domain.Transaction),
		entryIDs:     make(map[uuid.UUID]struct{}),
		now:          time.Now,
	}
}

// Accounts returns the account repository view of the store.
func (s *Store) Accounts() *AccountRepo {
	return &AccountRepo{s: s}
}

// Transactions returns the transaction repository view of the store.
func (s *Store) Transactions() *TransactionRepo {
	return &TransactionRepo{s: s}
}

// AccountRepo serves accounts from a Store.
type AccountRepo struct {
	s *Store
}

// Create stores a new account and returns it.
func (r *AccountRepo) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[arg.ID]; ok {
		zerolog.Ctx(ctx).Info().Str("account_id", arg.ID.String()).Msg("account already exists")
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}

	a := &domain.Account{
		ID:        arg.ID,
		Name:      arg.Name,
		Balance:   arg.Balance,
		Direction: arg.Direction,
		CreatedAt: r.s.now().UTC(),
	}
	r.s.accounts[a.ID] = a

	return *a, nil
}

// Get returns the account with the given id.
func (r *AccountRepo) Get(_ context.Context, id uuid.UUID) (domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return *a, nil
}

// List returns all accounts ordered by creation time.
func (r *AccountRepo) List(_ context.Context) ([]domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.Account, 0, len(r.s.accounts))
	for _, a := range r.s.accounts {
		items = append(items, *a)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})

	return items, nil
}

// TransactionRepo serves transactions from a Store.
type TransactionRepo struct {
	s *Store
}

// Commit stores the transaction with its entries and applies the balance updates atomically.
//
// Deltas are applied to the balances held under the lock, matching the relative
// update of the PostgreSQL store.
func (r *TransactionRepo) Commit(ctx context.Context, arg domain.CommitParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t := arg.Transaction

	if _, ok := r.s.transactions[t.ID]; ok {
		l.Info().Str("transaction_id", t.ID.String()).Msg("transaction already exists")
		return domain.TransactionResult{}, domain.ErrTransactionAlreadyExists
	}

	seen := make(map[uuid.UUID]struct{}, len(t.Entries))

	for _, e := range t.Entries {
		if _, ok := r.s.accounts[e.AccountID]; !ok {
			l.Info().Str("account_id", e.AccountID.String()).Msg("entry account not found")
			return domain.TransactionResult{}, domain.NewAccountNotFoundError(e.AccountID)
		}

		_, dup := seen[e.ID]
		if _, ok := r.s.entryIDs[e.ID]; ok || dup {
			l.Info().Str("entry_id", e.ID.String()).Msg("entry already exists")
			return domain.TransactionResult{}, domain.ErrTransactionAlreadyExists
		}

		seen[e.ID] = struct{}{}
	}

	for _, u := range arg.Balances {
		if _, ok := r.s.accounts[u.AccountID]; !ok {
			l.Info().Str("account_id", u.AccountID.String()).Msg("balance account not found")
			return domain.TransactionResult{}, domain.NewAccountNotFoundError(u.AccountID)
		}
	}

	// Nothing below can fail.
	stored := t
	stored.Entries = append([]domain.Entry(nil), t.Entries...)
	r.s.transactions[t.ID] = &stored

	for id := range seen {
		r.s.entryIDs[id] = struct{}{}
	}

	result := domain.TransactionResult{
		Transaction: copyTransaction(&stored),
		Accounts:    make([]domain.Account, 0, len(arg.Balances)),
	}

	for _, u := range arg.Balances {
		a := r.s.accounts[u.AccountID]
		a.Balance = a.Balance.Add(u.Delta)
		result.Accounts = append(result.Accounts, *a)
	}

	return result, nil
}

// Get returns the transaction with the given id.
func (r *TransactionRepo) Get(_ context.Context, id uuid.UUID) (domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.transactions[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return copyTransaction(t), nil
}

// List returns all transactions ordered by date.
func (r *TransactionRepo) List(_ context.Context) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]domain.Transaction, 0, len(r.s.transactions))
	for _, t := range r.s.transactions {
		items = append(items, copyTransaction(t))
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID.String() < items[j].ID.String()
	})

	return items, nil
}

func copyTransaction(t *domain.Transaction) domain.Transaction {
	c := *t
	c.Entries = append([]domain.Entry(nil), t.Entries...)

	return c
}
