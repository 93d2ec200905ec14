// Package posting holds the pure double-entry rules used when posting a transaction.
package posting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// Tolerance is the largest accepted difference between debit and credit totals.
var Tolerance = decimal.New(1, -3)

// Totals returns the sum of debit and credit entry amounts.
func Totals(entries []domain.CreateEntryParams) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero

	for _, e := range entries {
		switch e.Direction {
		case domain.Debit:
			debits = debits.Add(e.Amount)
		case domain.Credit:
			credits = credits.Add(e.Amount)
		}
	}

	return debits, credits
}

// CheckBalance verifies that debit and credit totals are equal within Tolerance.
func CheckBalance(entries []domain.CreateEntryParams) error {
	debits, credits := Totals(entries)

	if debits.Sub(credits).Abs().GreaterThan(Tolerance) {
		return domain.NewUnbalancedError(debits, credits)
	}

	return nil
}

// Effect returns the signed change an entry on the given side makes to an account
// whose normal side is normal.
func Effect(normal, side domain.Direction, amount decimal.Decimal) decimal.Decimal {
	if side == normal {
		return amount
	}

	return amount.Neg()
}

// Calculate returns the net balance update of every account touched by entries.
//
// Updates start from the stored balance in accounts and are returned in the order
// their accounts are first referenced. An account referenced several times yields
// a single update.
func Calculate(entries []domain.CreateEntryParams, accounts map[uuid.UUID]domain.Account) ([]domain.BalanceUpdate, error) {
	var (
		order  []uuid.UUID
		deltas = make(map[uuid.UUID]decimal.Decimal, len(accounts))
	)

	for _, e := range entries {
		acc, ok := accounts[e.AccountID]
		if !ok {
			return nil, domain.NewAccountNotFoundError(e.AccountID)
		}

		delta, seen := deltas[e.AccountID]
		if !seen {
			order = append(order, e.AccountID)
			delta = decimal.Zero
		}

		deltas[e.AccountID] = delta.Add(Effect(acc.Direction, e.Direction, e.Amount))
	}

	updates := make([]domain.BalanceUpdate, 0, len(order))

	for _, id := range order {
		previous := accounts[id].Balance
		delta := deltas[id]

		updates = append(updates, domain.BalanceUpdate{
			AccountID: id,
			Previous:  previous,
			Delta:     delta,
			Balance:   previous.Add(delta),
		})
	}

	return updates, nil
}
