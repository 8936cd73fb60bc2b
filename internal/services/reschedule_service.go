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

const maxSuggestedDates = 5

// RescheduleResult carries the moved order, or the alternative dates offered
// when the requested day has no headroom.
type RescheduleResult struct {
	Order        *models.Order           `json:"order,omitempty"`
	Alternatives []*models.DailyCapacity `json:"alternatives,omitempty"`
}

// RescheduleService moves orders between production days. A normal move is
// subject to the target day's capacity; a forced move bypasses it and leaves
// a warning in the notification inbox.
type RescheduleService struct {
	orders     OrderStore
	capacities *CapacityService
	notifier   *NotificationService
}

func NewRescheduleService(orders OrderStore, capacities *CapacityService, notifier *NotificationService) *RescheduleService {
	return &RescheduleService{orders: orders, capacities: capacities, notifier: notifier}
}

func (s *RescheduleService) Reschedule(ctx context.Context, id int, req *models.RescheduleRequest) (*RescheduleResult, error) {
	newDate, err := timeutil.ParseDate(req.NewDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", models.ErrValidation, req.NewDate)
	}

	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldDate := order.Detail.ScheduledDate
	pools := models.CapacityPools(order.ProductType)

	if err := s.orders.Reschedule(ctx, id, newDate, req.Force); err != nil {
		if errors.Is(err, models.ErrCapacityExhausted) || errors.Is(err, models.ErrCapacityUndefined) {
			metrics.CapacityRejectionsTotal.Inc()
			alternatives, suggestErr := s.capacities.SuggestDates(ctx, newDate, pools, maxSuggestedDates)
			if suggestErr != nil {
				log.Printf("[Reschedule] failed to load alternative dates: %v", suggestErr)
			}
			return &RescheduleResult{Alternatives: alternatives}, err
		}
		return nil, err
	}

	moved, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Order #%d (%s) moved from %s to %s",
		id, moved.CustomerName, timeutil.FormatDate(oldDate), req.NewDate)
	if req.Reason != "" {
		message += ": " + req.Reason
	}
	severity := models.SeverityInfo
	if req.Force {
		severity = models.SeverityWarning
		message += " (forced past capacity)"
	}
	if _, err := s.notifier.Notify(ctx, &id, severity, message); err != nil {
		log.Printf("[Reschedule] failed to record notification for order %d: %v", id, err)
	}

	return &RescheduleResult{Order: moved}, nil
}
