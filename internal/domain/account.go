// Package domain provides defenitions of all ledger entities.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists indicates that an account with the given id already exists.
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// Account holds the running balance of a ledger account.
//
// Balance is a cached aggregate of every entry ever posted against the account
// and is only changed by a committed transaction.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Direction Direction       `json:"direction"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
type CreateAccountParams struct {
	ID        uuid.UUID
	Name      string
	Balance   decimal.Decimal
	Direction Direction
}
