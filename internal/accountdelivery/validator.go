package accountdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidDirection validates whether the field holds DEBIT or CREDIT in any case.
var ValidDirection validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, valid := domain.ParseDirection(s)
		return valid
	}

	return false
}
