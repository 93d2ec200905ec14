package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry holds one side of a transaction posted against an account.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"` // always positive
	Direction     Direction       `json:"direction"`
}

// CreateEntryParams is the input data for a single transaction entry.
type CreateEntryParams struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Direction Direction
}
