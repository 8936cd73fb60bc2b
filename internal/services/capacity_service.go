package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/timeutil"
)

// CapacityService manages the per-day slot quotas. Slot consumption itself
// happens inside the order transaction; this service only defines and reads
// the quotas.
type CapacityService struct {
	capacities CapacityStore
}

func NewCapacityService(capacities CapacityStore) *CapacityService {
	return &CapacityService{capacities: capacities}
}

func (s *CapacityService) CreateCapacity(ctx context.Context, req *models.CreateCapacityRequest) (*models.DailyCapacity, error) {
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid capacity date %q", models.ErrValidation, req.Date)
	}
	if req.GarageDoorSlots < 0 || req.AccessoryPanelSlots < 0 {
		return nil, fmt.Errorf("%w: slot counts cannot be negative", models.ErrValidation)
	}

	capacity := &models.DailyCapacity{
		Date:                date,
		GarageDoorSlots:     req.GarageDoorSlots,
		AccessoryPanelSlots: req.AccessoryPanelSlots,
	}
	if err := s.capacities.Create(ctx, capacity); err != nil {
		return nil, err
	}
	return capacity, nil
}

func (s *CapacityService) UpdateCapacity(ctx context.Context, id int, req *models.UpdateCapacityRequest) (*models.DailyCapacity, error) {
	capacity, err := s.capacities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GarageDoorSlots != nil {
		if *req.GarageDoorSlots < 0 {
			return nil, fmt.Errorf("%w: slot counts cannot be negative", models.ErrValidation)
		}
		capacity.GarageDoorSlots = *req.GarageDoorSlots
	}
	if req.AccessoryPanelSlots != nil {
		if *req.AccessoryPanelSlots < 0 {
			return nil, fmt.Errorf("%w: slot counts cannot be negative", models.ErrValidation)
		}
		capacity.AccessoryPanelSlots = *req.AccessoryPanelSlots
	}

	if err := s.capacities.Update(ctx, capacity); err != nil {
		return nil, err
	}
	return capacity, nil
}

func (s *CapacityService) GetCapacityByDate(ctx context.Context, date string) (*models.DailyCapacity, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, date)
	}
	return s.capacities.GetByDate(ctx, day)
}

func (s *CapacityService) ListCapacities(ctx context.Context) ([]*models.DailyCapacity, error) {
	return s.capacities.List(ctx)
}

// CheckAvailability reports whether an order of the given product type would
// fit on the given day. Product types outside the capacity pools always fit.
func (s *CapacityService) CheckAvailability(ctx context.Context, date string, productType string) (bool, error) {
	if !models.ValidProductType(productType) {
		return false, fmt.Errorf("%w: unknown product type %q", models.ErrValidation, productType)
	}
	pools := models.CapacityPools(productType)
	if len(pools) == 0 {
		return true, nil
	}

	day, err := timeutil.ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("%w: invalid date %q", models.ErrValidation, date)
	}
	capacity, err := s.capacities.GetByDate(ctx, day)
	if err != nil {
		return false, err
	}
	return capacity.HasHeadroom(pools), nil
}

// SuggestDates returns upcoming days with headroom for the given pools,
// starting from the day after from, capped at limit entries.
func (s *CapacityService) SuggestDates(ctx context.Context, from time.Time, pools []string, limit int) ([]*models.DailyCapacity, error) {
	upcoming, err := s.capacities.ListUpcoming(ctx, timeutil.StartOfDay(from).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var suggestions []*models.DailyCapacity
	for _, capacity := range upcoming {
		if capacity.HasHeadroom(pools) {
			suggestions = append(suggestions, capacity)
			if len(suggestions) == limit {
				break
			}
		}
	}
	return suggestions, nil
}
