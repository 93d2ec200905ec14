package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrorKind classifies a ValidationError.
type ErrorKind string

// Validation error kinds.
const (
	KindTooFewEntries   ErrorKind = "TOO_FEW_ENTRIES"
	KindUnbalanced      ErrorKind = "UNBALANCED"
	KindInvalidEntry    ErrorKind = "INVALID_ENTRY"
	KindAccountNotFound ErrorKind = "ACCOUNT_NOT_FOUND"
)

// MinEntries is the least number of entries a transaction can have.
const MinEntries = 2

// ValidationError is a terminal rejection of a ledger request.
//
// Only the fields relevant to Kind are set.
type ValidationError struct {
	Kind      ErrorKind
	Field     string
	Index     int
	AccountID uuid.UUID
	Count     int
	Debits    decimal.Decimal
	Credits   decimal.Decimal
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindTooFewEntries:
		return fmt.Sprintf("transaction must have at least %d entries, got %d", MinEntries, e.Count)
	case KindUnbalanced:
		return fmt.Sprintf("entries are unbalanced: debits %s, credits %s", e.Debits, e.Credits)
	case KindInvalidEntry:
		if e.Index < 0 {
			return fmt.Sprintf("invalid %s", e.Field)
		}
		return fmt.Sprintf("entry %d has invalid %s", e.Index, e.Field)
	case KindAccountNotFound:
		return fmt.Sprintf("account %s not found", e.AccountID)
	}

	return string(e.Kind)
}

// Details returns the values needed to reconstruct the error message.
func (e *ValidationError) Details() map[string]any {
	switch e.Kind {
	case KindTooFewEntries:
		return map[string]any{"count": e.Count, "min": MinEntries}
	case KindUnbalanced:
		return map[string]any{"debits": e.Debits.String(), "credits": e.Credits.String()}
	case KindInvalidEntry:
		if e.Index < 0 {
			return map[string]any{"field": e.Field}
		}
		return map[string]any{"field": e.Field, "index": e.Index}
	case KindAccountNotFound:
		return map[string]any{"account_id": e.AccountID.String()}
	}

	return nil
}

// NewTooFewEntriesError returns a TOO_FEW_ENTRIES error for count entries.
func NewTooFewEntriesError(count int) error {
	return &ValidationError{Kind: KindTooFewEntries, Count: count}
}

// NewUnbalancedError returns an UNBALANCED error carrying both totals.
func NewUnbalancedError(debits, credits decimal.Decimal) error {
	return &ValidationError{Kind: KindUnbalanced, Debits: debits, Credits: credits}
}

// NewInvalidEntryError returns an INVALID_ENTRY error for the field of the entry at index.
// A negative index refers to a field outside of the entries.
func NewInvalidEntryError(index int, field string) error {
	return &ValidationError{Kind: KindInvalidEntry, Index: index, Field: field}
}

// NewAccountNotFoundError returns an ACCOUNT_NOT_FOUND error for id.
func NewAccountNotFoundError(id uuid.UUID) error {
	return &ValidationError{Kind: KindAccountNotFound, AccountID: id}
}

// KindOf returns the kind of err if it is a ValidationError.
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}

	return "", false
}
