package models

import (
	"encoding/json"
	"time"
)

// Payment methods.
const (
	MethodCash = "cash"
	MethodBank = "bank"
)

// Debt classifications. When a balance is outstanding the classification
// equals the payment method; a settled payment carries DebtNone.
const (
	DebtNone = "none"
	DebtCash = "cash"
	DebtBank = "bank"
)

// ValidMethod reports whether m is a supported payment method.
func ValidMethod(m string) bool {
	return m == MethodCash || m == MethodBank
}

type Payment struct {
	ID         int       `json:"id"`
	OrderID    int       `json:"order_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  *float64  `json:"unit_price,omitempty"`
	TotalPrice float64   `json:"total_price"`
	AmountPaid float64   `json:"amount_paid"`
	Method     string    `json:"method"`
	PaidInFull bool      `json:"paid_in_full"`
	DebtClass  string    `json:"debt_class"`
	ReceivedBy string    `json:"received_by,omitempty"` // who took the last installment
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Remaining is the outstanding balance. Computed, never stored.
func (p *Payment) Remaining() float64 {
	return p.TotalPrice - p.AmountPaid
}

func (p Payment) MarshalJSON() ([]byte, error) {
	type alias Payment
	return json.Marshal(struct {
		alias
		Remaining float64 `json:"remaining"`
	}{alias(p), p.Remaining()})
}
