// Package helpers provides random ledger fixtures and seeding helpers shared by tests.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// AccountCreator stores accounts.
type AccountCreator interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
}

// RandomAccount returns a random account with the given normal direction.
func RandomAccount(direction domain.Direction) domain.Account {
	return domain.Account{
		ID:        uuid.New(),
		Name:      randompkg.Name(),
		Balance:   randompkg.MoneyAmountBetween(0, 1000),
		Direction: direction,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

// SeedAccount stores an account with the given direction and balance.
func SeedAccount(t *testing.T, store AccountCreator, direction domain.Direction, balance decimal.Decimal) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		ID:        uuid.New(),
		Name:      randompkg.Name(),
		Balance:   balance,
		Direction: direction,
	}

	account, err := store.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("store.Create(%+v) returned error: %v", arg, err)
	}

	return account
}
