// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo  Repo
	newID func() uuid.UUID
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{
		repo:  ar,
		newID: uuid.New,
	}
}

// Create validates and stores a new account.
//
// A missing id is generated and a missing balance starts at zero.
func (s *Service) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	if !arg.Direction.Valid() {
		err := domain.NewInvalidEntryError(-1, "direction")
		l.Info().Err(err).Send()

		return domain.Account{}, err
	}

	if arg.ID == uuid.Nil {
		arg.ID = s.newID()
	}

	account, err := s.repo.Create(ctx, arg)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// Get returns the account with the given id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
