package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionAlreadyExists indicates that a transaction or one of its entries already exists.
	ErrTransactionAlreadyExists = errors.New("transaction already exists")
	// ErrStorageFailure indicates that the store could not complete an atomic commit.
	// Nothing of the commit is persisted and the call may be retried.
	ErrStorageFailure = errors.New("storage failure")
)

// Transaction holds a set of balanced entries committed together.
type Transaction struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Date    time.Time `json:"date"`
	Entries []Entry   `json:"entries"`
}

// CreateTransactionParams is the input data to post a transaction.
type CreateTransactionParams struct {
	ID      uuid.UUID
	Name    string
	Entries []CreateEntryParams
}

// BalanceUpdate is the net change of one account caused by a transaction.
type BalanceUpdate struct {
	AccountID uuid.UUID
	Previous  decimal.Decimal
	Delta     decimal.Decimal
	Balance   decimal.Decimal
}

// CommitParams is everything the ledger store writes in a single atomic commit.
type CommitParams struct {
	Transaction Transaction
	Balances    []BalanceUpdate
}

// TransactionResult is the result of a committed transaction.
type TransactionResult struct {
	Transaction Transaction `json:"transaction"`
	Accounts    []Account   `json:"accounts"`
}
