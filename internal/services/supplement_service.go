package services

import (
	"context"
	"fmt"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
)

// SupplementService manages add-on sales hanging off garage-door orders.
// An add-on never touches capacity; its payment state is tracked the same
// way as the parent order's.
type SupplementService struct {
	supplements SupplementStore
	orders      OrderStore
}

func NewSupplementService(supplements SupplementStore, orders OrderStore) *SupplementService {
	return &SupplementService{supplements: supplements, orders: orders}
}

func (s *SupplementService) CreateSupplement(ctx context.Context, orderID int, req *models.CreateSupplementRequest) (*models.SupplementaryOrder, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.AcceptsSupplements(order.ProductType) {
		return nil, fmt.Errorf("%w: %s orders do not take add-on sales", models.ErrValidation, order.ProductType)
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrValidation)
	}
	if !models.ValidMethod(req.Method) {
		return nil, fmt.Errorf("%w: payment method must be cash or bank", models.ErrValidation)
	}
	if req.Price < 0 || req.AmountPaid < 0 {
		return nil, fmt.Errorf("%w: price and deposit cannot be negative", models.ErrValidation)
	}

	supplement := &models.SupplementaryOrder{
		OrderID:     orderID,
		Description: req.Description,
		Location:    order.CustomerLocation,
		Price:       req.Price,
		AmountPaid:  req.AmountPaid,
		Method:      req.Method,
		PaidInFull:  req.PaidInFull,
		DebtClass:   EvaluateDebtClass(req.Price, req.AmountPaid, req.PaidInFull, req.Method),
	}
	if err := s.supplements.Create(ctx, supplement); err != nil {
		return nil, err
	}
	return supplement, nil
}

func (s *SupplementService) GetSupplement(ctx context.Context, id int) (*models.SupplementaryOrder, error) {
	return s.supplements.Get(ctx, id)
}

func (s *SupplementService) ListByOrder(ctx context.Context, orderID int) ([]*models.SupplementaryOrder, error) {
	if _, err := s.orders.Get(ctx, orderID); err != nil {
		return nil, err
	}
	return s.supplements.ListByOrder(ctx, orderID)
}

func (s *SupplementService) UpdateSupplement(ctx context.Context, id int, req *models.UpdateSupplementRequest) (*models.SupplementaryOrder, error) {
	supplement, err := s.supplements.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		supplement.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", models.ErrValidation)
		}
		supplement.Price = *req.Price
	}
	if req.AmountPaid != nil {
		if *req.AmountPaid < 0 {
			return nil, fmt.Errorf("%w: deposit cannot be negative", models.ErrValidation)
		}
		supplement.AmountPaid = *req.AmountPaid
	}
	if req.Method != nil {
		if !models.ValidMethod(*req.Method) {
			return nil, fmt.Errorf("%w: payment method must be cash or bank", models.ErrValidation)
		}
		supplement.Method = *req.Method
	}
	if req.PaidInFull != nil {
		supplement.PaidInFull = *req.PaidInFull
	}
	supplement.DebtClass = EvaluateDebtClass(supplement.Price, supplement.AmountPaid, supplement.PaidInFull, supplement.Method)

	if err := s.supplements.Update(ctx, supplement); err != nil {
		return nil, err
	}
	return supplement, nil
}

// AddPartialPayment records an installment against the add-on's balance.
func (s *SupplementService) AddPartialPayment(ctx context.Context, id int, amount float64) (*models.SupplementaryOrder, error) {
	supplement, err := s.supplements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment must be positive", models.ErrInvalidAmount)
	}
	if amount > supplement.Remaining() {
		return nil, fmt.Errorf("%w: payment of %.2f exceeds remaining balance %.2f", models.ErrInvalidAmount, amount, supplement.Remaining())
	}

	supplement.AmountPaid += amount
	supplement.DebtClass = EvaluateDebtClass(supplement.Price, supplement.AmountPaid, supplement.PaidInFull, supplement.Method)

	if err := s.supplements.Update(ctx, supplement); err != nil {
		return nil, err
	}
	return supplement, nil
}

func (s *SupplementService) DeleteSupplement(ctx context.Context, id int) error {
	return s.supplements.Delete(ctx, id)
}
