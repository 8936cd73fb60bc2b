package services

import (
	"context"
	"time"

	"github.com/AMurtezaj/door-management-system-sub000/internal/metrics"
	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/ws"
)

// NotificationService owns the notification inbox and pushes every new
// notification to connected websocket clients.
type NotificationService struct {
	store NotificationStore
	hub   *ws.Hub
}

func NewNotificationService(store NotificationStore, hub *ws.Hub) *NotificationService {
	return &NotificationService{store: store, hub: hub}
}

// Notify persists a notification and broadcasts it. orderID is nil for
// system-wide notices.
func (s *NotificationService) Notify(ctx context.Context, orderID *int, severity, message string) (*models.Notification, error) {
	notification := &models.Notification{
		OrderID:  orderID,
		Message:  message,
		Severity: severity,
	}
	if err := s.store.Create(ctx, notification); err != nil {
		return nil, err
	}
	metrics.NotificationsEmittedTotal.WithLabelValues(severity).Inc()
	s.hub.Broadcast(notification)
	return notification, nil
}

func (s *NotificationService) List(ctx context.Context) ([]*models.Notification, error) {
	return s.store.List(ctx)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	return s.store.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.store.MarkAllRead(ctx)
}

func (s *NotificationService) Delete(ctx context.Context, id int) error {
	return s.store.Delete(ctx, id)
}

// HasRecentForOrder reports whether a notification of the given severity for
// the order exists at or after the given time.
func (s *NotificationService) HasRecentForOrder(ctx context.Context, orderID int, severity string, since time.Time) (bool, error) {
	return s.store.ExistsForOrderSince(ctx, orderID, severity, since)
}
