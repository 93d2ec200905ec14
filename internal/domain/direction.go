package domain

import "strings"

// Direction is a side of the ledger.
type Direction string

// Supported directions.
const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// ParseDirection converts s into a Direction ignoring case.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", false
	}

	return d, true
}

// Valid reports whether d is one of the two supported directions.
func (d Direction) Valid() bool {
	return d == Debit || d == Credit
}

func (d Direction) String() string {
	return string(d)
}
