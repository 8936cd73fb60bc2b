package services

import "github.com/AMurtezaj/door-management-system-sub000/internal/models"

// EvaluateDebtClass computes the debt classification from the payment
// figures. An order is settled when the paid-in-full flag is set or nothing
// remains; otherwise the outstanding balance is attributed to the payment
// method. This is the single place the classification is derived.
func EvaluateDebtClass(total, paid float64, paidInFull bool, method string) string {
	if paidInFull || total-paid <= 0 {
		return models.DebtNone
	}
	switch method {
	case models.MethodBank:
		return models.DebtBank
	default:
		return models.DebtCash
	}
}

// DerivePrices resolves the mutually derivable price fields. A supplied unit
// price wins and determines the total; a supplied total back-computes the
// unit price; with neither, both default to zero for a measurement-only
// order that is completed later.
func DerivePrices(quantity int, unitPrice, totalPrice *float64) (*float64, float64) {
	if quantity <= 0 {
		quantity = 1
	}
	if unitPrice != nil {
		return unitPrice, *unitPrice * float64(quantity)
	}
	if totalPrice != nil {
		unit := *totalPrice / float64(quantity)
		return &unit, *totalPrice
	}
	return nil, 0
}
