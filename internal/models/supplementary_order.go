package models

import (
	"encoding/json"
	"time"
)

// SupplementaryOrder is an add-on sale attached to a garage-door (or
// combined) parent order. It carries its own price/deposit/debt fields and
// shares the parent customer's location.
type SupplementaryOrder struct {
	ID          int       `json:"id"`
	OrderID     int       `json:"order_id"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	AmountPaid  float64   `json:"amount_paid"`
	Method      string    `json:"method"`
	PaidInFull  bool      `json:"paid_in_full"`
	DebtClass   string    `json:"debt_class"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Remaining is the outstanding balance on the add-on.
func (s *SupplementaryOrder) Remaining() float64 {
	return s.Price - s.AmountPaid
}

func (s SupplementaryOrder) MarshalJSON() ([]byte, error) {
	type alias SupplementaryOrder
	return json.Marshal(struct {
		alias
		Remaining float64 `json:"remaining"`
	}{alias(s), s.Remaining()})
}

// CreateSupplementRequest represents the request body for attaching an
// add-on sale to an order.
type CreateSupplementRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	AmountPaid  float64 `json:"amount_paid"`
	Method      string  `json:"method"`
	PaidInFull  bool    `json:"paid_in_full"`
}

// UpdateSupplementRequest is a partial update; nil fields stay untouched.
type UpdateSupplementRequest struct {
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	AmountPaid  *float64 `json:"amount_paid,omitempty"`
	Method      *string  `json:"method,omitempty"`
	PaidInFull  *bool    `json:"paid_in_full,omitempty"`
}
