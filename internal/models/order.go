package models

import (
	"encoding/json"
	"time"
)

// Product types a fabrication order can be placed for. Garage doors and
// accessory panels are capacity-bound; a combined order draws one slot from
// each pool, room doors schedule freely.
const (
	ProductGarageDoor     = "garage_door"
	ProductAccessoryPanel = "accessory_panel"
	ProductRoomDoor       = "room_door"
	ProductCombined       = "combined"
)

// Product (fabrication) statuses.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidProductType reports whether t is one of the fixed product categories.
func ValidProductType(t string) bool {
	switch t {
	case ProductGarageDoor, ProductAccessoryPanel, ProductRoomDoor, ProductCombined:
		return true
	}
	return false
}

// CapacityPools returns the capacity pools an order of the given product type
// reserves slots from. Combined orders consume one slot of each pool.
func CapacityPools(productType string) []string {
	switch productType {
	case ProductGarageDoor:
		return []string{PoolGarageDoor}
	case ProductAccessoryPanel:
		return []string{PoolAccessoryPanel}
	case ProductCombined:
		return []string{PoolGarageDoor, PoolAccessoryPanel}
	default:
		return nil
	}
}

// AcceptsSupplements reports whether orders of this product type can carry
// supplementary add-on sales.
func AcceptsSupplements(productType string) bool {
	return productType == ProductGarageDoor || productType == ProductCombined
}

type Order struct {
	ID               int                `json:"id"`
	CustomerID       int                `json:"customer_id"`
	CustomerName     string             `json:"customer_name"`
	CustomerPhone    string             `json:"customer_phone"`
	CustomerLocation string             `json:"customer_location"`
	ProductType      string             `json:"product_type"`
	Salesperson      string             `json:"salesperson"`
	Note             string             `json:"note"`
	Payment          *Payment           `json:"payment,omitempty"`
	Detail           *FabricationDetail `json:"detail,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// ProductStatus returns the order's externally visible status, which is the
// fabrication status only. The legacy duplicated status column is gone; this
// projection is all that remains of it.
func (o *Order) ProductStatus() string {
	if o.Detail != nil && o.Detail.ProductStatus != "" {
		return o.Detail.ProductStatus
	}
	return StatusInProgress
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		Status string `json:"status"`
	}{alias(o), o.ProductStatus()})
}

// CreateOrderRequest represents the request body for creating an order.
// Either customer_id or the customer name/phone/location fields must be set.
type CreateOrderRequest struct {
	CustomerID       *int     `json:"customer_id,omitempty"`
	CustomerName     string   `json:"customer_name"`
	CustomerPhone    string   `json:"customer_phone"`
	CustomerLocation string   `json:"customer_location"`
	ProductType      string   `json:"product_type"`
	Salesperson      string   `json:"salesperson"`
	Note             string   `json:"note"`
	Quantity         int      `json:"quantity"`
	UnitPrice        *float64 `json:"unit_price,omitempty"`
	TotalPrice       *float64 `json:"total_price,omitempty"`
	AmountPaid       float64  `json:"amount_paid"`
	Method           string   `json:"method"`
	PaidInFull       bool     `json:"paid_in_full"`
	ScheduledDate    string   `json:"scheduled_date"`
	Incomplete       bool     `json:"incomplete"` // measurement-only order, prices filled in later
	Measurer         string   `json:"measurer"`
	MeasurementDate  *string  `json:"measurement_date,omitempty"`
	Sender           string   `json:"sender"`
	Installer        string   `json:"installer"`
	RawLength        float64  `json:"raw_length"`
	RawWidth         float64  `json:"raw_width"`
	LengthProfile    float64  `json:"length_profile"`
	WidthProfile     float64  `json:"width_profile"`
}

// UpdateOrderRequest represents a partial update; nil fields stay untouched.
// The scheduled date moves only through the reschedule endpoint.
type UpdateOrderRequest struct {
	Salesperson       *string  `json:"salesperson,omitempty"`
	Note              *string  `json:"note,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	UnitPrice         *float64 `json:"unit_price,omitempty"`
	TotalPrice        *float64 `json:"total_price,omitempty"`
	AmountPaid        *float64 `json:"amount_paid,omitempty"`
	Method            *string  `json:"method,omitempty"`
	PaidInFull        *bool    `json:"paid_in_full,omitempty"`
	Measurer          *string  `json:"measurer,omitempty"`
	MeasurementDate   *string  `json:"measurement_date,omitempty"`
	MeasurementStatus *string  `json:"measurement_status,omitempty"`
	Sender            *string  `json:"sender,omitempty"`
	Installer         *string  `json:"installer,omitempty"`
	ProductStatus     *string  `json:"product_status,omitempty"`
	Printed           *bool    `json:"printed,omitempty"`
	RawLength         *float64 `json:"raw_length,omitempty"`
	RawWidth          *float64 `json:"raw_width,omitempty"`
	LengthProfile     *float64 `json:"length_profile,omitempty"`
	WidthProfile      *float64 `json:"width_profile,omitempty"`
}

// PaymentStatusRequest toggles the paid-in-full flag.
type PaymentStatusRequest struct {
	PaidInFull bool `json:"paid_in_full"`
}

// PartialPaymentRequest represents an installment against an order's balance.
type PartialPaymentRequest struct {
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
}

// CancelPaymentRequest reverses part of the amount already paid.
type CancelPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// RescheduleRequest moves an order to a new production date.
type RescheduleRequest struct {
	NewDate string `json:"new_date"`
	Reason  string `json:"reason"`
	Force   bool   `json:"force"`
}

// DebtSummary aggregates outstanding balances by payment method.
type DebtSummary struct {
	CashOrders  int     `json:"cash_orders"`
	CashTotal   float64 `json:"cash_total"`
	BankOrders  int     `json:"bank_orders"`
	BankTotal   float64 `json:"bank_total"`
	TotalOrders int     `json:"total_orders"`
	Total       float64 `json:"total"`
}
