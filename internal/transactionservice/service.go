// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/posting"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Commit(ctx context.Context, arg domain.CommitParams) (domain.TransactionResult, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
	now            func() time.Time
	newID          func() uuid.UUID
}

// New return transaction service struct to manage posting bussines logic.
func New(tr Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
		now:            time.Now,
		newID:          uuid.New,
	}
}

func validEntries(entries []domain.CreateEntryParams) error {
	if len(entries) < domain.MinEntries {
		return domain.NewTooFewEntriesError(len(entries))
	}

	for i, e := range entries {
		switch {
		case e.AccountID == uuid.Nil:
			return domain.NewInvalidEntryError(i, "account_id")
		case !e.Amount.GreaterThan(decimal.Zero):
			return domain.NewInvalidEntryError(i, "amount")
		case !e.Direction.Valid():
			return domain.NewInvalidEntryError(i, "direction")
		}
	}

	return nil
}

// accounts fetches every distinct account referenced by entries once.
func (s *Service) accounts(ctx context.Context, entries []domain.CreateEntryParams) (map[uuid.UUID]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	accounts := make(map[uuid.UUID]domain.Account, len(entries))

	for _, e := range entries {
		if _, ok := accounts[e.AccountID]; ok {
			continue
		}

		account, err := s.accountService.Get(ctx, e.AccountID)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				err = domain.NewAccountNotFoundError(e.AccountID)
				l.Info().Err(err).Send()

				return nil, err
			}

			l.Error().Err(err).Send()

			return nil, err
		}

		accounts[e.AccountID] = account
	}

	return accounts, nil
}

// Post validates the entries, computes the balance updates of the touched accounts
// and commits them together with the transaction.
//
// Nothing is written unless every check passes.
func (s *Service) Post(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	if err := validEntries(arg.Entries); err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	if err := posting.CheckBalance(arg.Entries); err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	accounts, err := s.accounts(ctx, arg.Entries)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	balances, err := posting.Calculate(arg.Entries, accounts)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.TransactionResult{}, err
	}

	t := domain.Transaction{
		ID:      arg.ID,
		Name:    arg.Name,
		Date:    s.now().UTC(),
		Entries: make([]domain.Entry, 0, len(arg.Entries)),
	}

	if t.ID == uuid.Nil {
		t.ID = s.newID()
	}

	for _, e := range arg.Entries {
		entry := domain.Entry{
			ID:            e.ID,
			TransactionID: t.ID,
			AccountID:     e.AccountID,
			Amount:        e.Amount,
			Direction:     e.Direction,
		}

		if entry.ID == uuid.Nil {
			entry.ID = s.newID()
		}

		t.Entries = append(t.Entries, entry)
	}

	result, err := s.repo.Commit(ctx, domain.CommitParams{Transaction: t, Balances: balances})
	if err != nil {
		return domain.TransactionResult{}, err
	}

	l.Info().
		Str("transaction_id", result.Transaction.ID.String()).
		Int("entries", len(result.Transaction.Entries)).
		Msg("transaction posted")

	return result, nil
}

// Get returns the transaction with the given id together with its entries.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	return t, nil
}

// List returns all transactions.
func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return items, nil
}
