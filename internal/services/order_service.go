package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/AMurtezaj/door-management-system-sub000/internal/metrics"
	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/timeutil"
)

// OrderService is the transaction manager for the order aggregate: it
// validates input, derives the price and debt fields and hands the store a
// fully built aggregate written in one transaction.
type OrderService struct {
	orders   OrderStore
	notifier *NotificationService
}

func NewOrderService(orders OrderStore, notifier *NotificationService) *OrderService {
	return &OrderService{orders: orders, notifier: notifier}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	if !models.ValidProductType(req.ProductType) {
		return nil, fmt.Errorf("%w: unknown product type %q", models.ErrValidation, req.ProductType)
	}
	if !models.ValidMethod(req.Method) {
		return nil, fmt.Errorf("%w: payment method must be cash or bank", models.ErrValidation)
	}
	if req.CustomerID == nil && (req.CustomerName == "" || req.CustomerPhone == "") {
		return nil, fmt.Errorf("%w: customer name and phone are required", models.ErrValidation)
	}
	if req.ScheduledDate == "" {
		return nil, fmt.Errorf("%w: scheduled date is required", models.ErrValidation)
	}
	scheduledDate, err := timeutil.ParseDate(req.ScheduledDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid scheduled date %q", models.ErrValidation, req.ScheduledDate)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}
	if req.AmountPaid < 0 {
		return nil, fmt.Errorf("%w: deposit cannot be negative", models.ErrValidation)
	}
	if req.UnitPrice == nil && req.TotalPrice == nil && !req.Incomplete {
		return nil, fmt.Errorf("%w: a unit or total price is required unless the order is marked incomplete", models.ErrValidation)
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	unitPrice, totalPrice := DerivePrices(quantity, req.UnitPrice, req.TotalPrice)

	order := &models.Order{
		ProductType:      req.ProductType,
		Salesperson:      req.Salesperson,
		Note:             req.Note,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		CustomerLocation: req.CustomerLocation,
		Payment: &models.Payment{
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
			AmountPaid: req.AmountPaid,
			Method:     req.Method,
			PaidInFull: req.PaidInFull,
			DebtClass:  EvaluateDebtClass(totalPrice, req.AmountPaid, req.PaidInFull, req.Method),
		},
		Detail: &models.FabricationDetail{
			Measurer:          req.Measurer,
			MeasurementStatus: models.MeasurementUnmeasured,
			Sender:            req.Sender,
			Installer:         req.Installer,
			ScheduledDate:     scheduledDate,
			ProductStatus:     models.StatusInProgress,
			RawLength:         req.RawLength,
			RawWidth:          req.RawWidth,
			LengthProfile:     req.LengthProfile,
			WidthProfile:      req.WidthProfile,
		},
	}
	if req.CustomerID != nil {
		order.CustomerID = *req.CustomerID
	}
	if req.MeasurementDate != nil {
		measuredAt, err := timeutil.ParseDate(*req.MeasurementDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid measurement date %q", models.ErrValidation, *req.MeasurementDate)
		}
		order.Detail.MeasurementDate = &measuredAt
		order.Detail.MeasurementStatus = models.MeasurementMeasured
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, models.ErrCapacityExhausted) {
			metrics.CapacityRejectionsTotal.Inc()
		}
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	return order, nil
}

// UpdateOrder applies a partial patch. Price, deposit and method changes
// re-derive the totals and the debt classification; fabrication fields move
// independently of the payment state.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, req *models.UpdateOrderRequest) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Salesperson != nil {
		order.Salesperson = *req.Salesperson
	}
	if req.Note != nil {
		order.Note = *req.Note
	}

	p := order.Payment
	quantityChanged := false
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
		}
		p.Quantity = *req.Quantity
		quantityChanged = true
	}
	switch {
	case req.UnitPrice != nil:
		p.UnitPrice = req.UnitPrice
		p.TotalPrice = *req.UnitPrice * float64(p.Quantity)
	case req.TotalPrice != nil:
		p.TotalPrice = *req.TotalPrice
		unit := *req.TotalPrice / float64(p.Quantity)
		p.UnitPrice = &unit
	case quantityChanged && p.UnitPrice != nil:
		p.TotalPrice = *p.UnitPrice * float64(p.Quantity)
	}
	if req.AmountPaid != nil {
		if *req.AmountPaid < 0 {
			return nil, fmt.Errorf("%w: deposit cannot be negative", models.ErrValidation)
		}
		p.AmountPaid = *req.AmountPaid
	}
	if req.Method != nil {
		if !models.ValidMethod(*req.Method) {
			return nil, fmt.Errorf("%w: payment method must be cash or bank", models.ErrValidation)
		}
		p.Method = *req.Method
	}
	if req.PaidInFull != nil {
		p.PaidInFull = *req.PaidInFull
	}
	p.DebtClass = EvaluateDebtClass(p.TotalPrice, p.AmountPaid, p.PaidInFull, p.Method)

	d := order.Detail
	if req.Measurer != nil {
		d.Measurer = *req.Measurer
	}
	if req.MeasurementDate != nil {
		measuredAt, err := timeutil.ParseDate(*req.MeasurementDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid measurement date %q", models.ErrValidation, *req.MeasurementDate)
		}
		d.MeasurementDate = &measuredAt
	}
	if req.MeasurementStatus != nil {
		if *req.MeasurementStatus != models.MeasurementUnmeasured && *req.MeasurementStatus != models.MeasurementMeasured {
			return nil, fmt.Errorf("%w: unknown measurement status %q", models.ErrValidation, *req.MeasurementStatus)
		}
		d.MeasurementStatus = *req.MeasurementStatus
	}
	if req.Sender != nil {
		d.Sender = *req.Sender
	}
	if req.Installer != nil {
		d.Installer = *req.Installer
	}
	if req.ProductStatus != nil {
		if *req.ProductStatus != models.StatusInProgress && *req.ProductStatus != models.StatusCompleted {
			return nil, fmt.Errorf("%w: unknown product status %q", models.ErrValidation, *req.ProductStatus)
		}
		d.ProductStatus = *req.ProductStatus
	}
	if req.Printed != nil {
		d.Printed = *req.Printed
	}
	if req.RawLength != nil {
		d.RawLength = *req.RawLength
	}
	if req.RawWidth != nil {
		d.RawWidth = *req.RawWidth
	}
	if req.LengthProfile != nil {
		d.LengthProfile = *req.LengthProfile
	}
	if req.WidthProfile != nil {
		d.WidthProfile = *req.WidthProfile
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id int) error {
	return s.orders.Delete(ctx, id)
}

func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) ListOrdersByDay(ctx context.Context, date string) ([]*models.Order, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, date)
	}
	return s.orders.ListByDay(ctx, day)
}

func (s *OrderService) ListOrdersByMeasurementStatus(ctx context.Context, status string) ([]*models.Order, error) {
	if status != models.MeasurementUnmeasured && status != models.MeasurementMeasured {
		return nil, fmt.Errorf("%w: unknown measurement status %q", models.ErrValidation, status)
	}
	return s.orders.ListByMeasurementStatus(ctx, status)
}

func (s *OrderService) ListDebts(ctx context.Context, method string) ([]*models.Order, error) {
	if !models.ValidMethod(method) {
		return nil, fmt.Errorf("%w: debt type must be cash or bank", models.ErrValidation)
	}
	return s.orders.ListDebts(ctx, method)
}

func (s *OrderService) DebtSummary(ctx context.Context) (*models.DebtSummary, error) {
	return s.orders.DebtSummary(ctx)
}

// SetPaidInFull toggles the paid-in-full flag and re-derives the debt
// classification. The fabrication status is untouched.
func (s *OrderService) SetPaidInFull(ctx context.Context, id int, paidInFull bool) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := order.Payment
	p.PaidInFull = paidInFull
	p.DebtClass = EvaluateDebtClass(p.TotalPrice, p.AmountPaid, p.PaidInFull, p.Method)

	if err := s.orders.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	return order, nil
}

// AddPartialPayment records an installment. The amount must be positive and
// no greater than the remaining balance.
func (s *OrderService) AddPartialPayment(ctx context.Context, id int, amount float64, receiver string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := order.Payment
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment must be positive", models.ErrInvalidAmount)
	}
	if amount > p.Remaining() {
		return nil, fmt.Errorf("%w: payment of %.2f exceeds remaining balance %.2f", models.ErrInvalidAmount, amount, p.Remaining())
	}

	p.AmountPaid += amount
	p.ReceivedBy = receiver
	p.DebtClass = EvaluateDebtClass(p.TotalPrice, p.AmountPaid, p.PaidInFull, p.Method)

	if err := s.orders.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelPartialPayment reverses part of the amount already paid and leaves an
// informational notification for audit visibility. It has no further side
// effect; in particular it does not touch capacity.
func (s *OrderService) CancelPartialPayment(ctx context.Context, id int, amount float64) (*models.Order, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p := order.Payment
	if amount <= 0 {
		return nil, fmt.Errorf("%w: reversal must be positive", models.ErrInvalidAmount)
	}
	if amount > p.AmountPaid {
		return nil, fmt.Errorf("%w: reversal of %.2f exceeds amount paid %.2f", models.ErrInvalidAmount, amount, p.AmountPaid)
	}

	p.AmountPaid -= amount
	p.DebtClass = EvaluateDebtClass(p.TotalPrice, p.AmountPaid, p.PaidInFull, p.Method)

	if err := s.orders.UpdatePayment(ctx, p); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Payment of %.2f on order #%d (%s) was reversed", amount, order.ID, order.CustomerName)
	if _, err := s.notifier.Notify(ctx, &order.ID, models.SeverityInfo, message); err != nil {
		log.Printf("[Orders] failed to record reversal notification for order %d: %v", order.ID, err)
	}
	return order, nil
}
