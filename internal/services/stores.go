package services

import (
	"context"
	"time"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
)

// Store interfaces over the repository layer. Services depend on these so
// business logic can be exercised against in-memory fakes in tests; the
// pgx-backed repositories satisfy them in production.

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	ListByDay(ctx context.Context, date time.Time) ([]*models.Order, error)
	ListByMeasurementStatus(ctx context.Context, status string) ([]*models.Order, error)
	ListDebts(ctx context.Context, method string) ([]*models.Order, error)
	DebtSummary(ctx context.Context) (*models.DebtSummary, error)
	ListOverdue(ctx context.Context, before time.Time) ([]*models.Order, error)
	ListPendingSince(ctx context.Context, cutoff time.Time) ([]*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id int) error
	Reschedule(ctx context.Context, id int, newDate time.Time, force bool) error
}

type CapacityStore interface {
	Create(ctx context.Context, capacity *models.DailyCapacity) error
	Update(ctx context.Context, capacity *models.DailyCapacity) error
	GetByID(ctx context.Context, id int) (*models.DailyCapacity, error)
	GetByDate(ctx context.Context, date time.Time) (*models.DailyCapacity, error)
	List(ctx context.Context) ([]*models.DailyCapacity, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]*models.DailyCapacity, error)
}

type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id int) error
	ExistsForOrderSince(ctx context.Context, orderID int, severity string, since time.Time) (bool, error)
}

type SupplementStore interface {
	Create(ctx context.Context, supplement *models.SupplementaryOrder) error
	Get(ctx context.Context, id int) (*models.SupplementaryOrder, error)
	ListByOrder(ctx context.Context, orderID int) ([]*models.SupplementaryOrder, error)
	Update(ctx context.Context, supplement *models.SupplementaryOrder) error
	Delete(ctx context.Context, id int) error
}
