package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (order_id, message, severity)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`
	return r.DB.QueryRow(ctx, query,
		notification.OrderID, notification.Message, notification.Severity,
	).Scan(&notification.ID, &notification.Read, &notification.CreatedAt)
}

func (r *NotificationRepository) List(ctx context.Context) ([]*models.Notification, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, message, is_read, severity, created_at
		FROM notifications
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Message, &n.Read, &n.Severity, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %d", models.ErrNotFound, id)
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	return err
}

func (r *NotificationRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: notification %d", models.ErrNotFound, id)
	}
	return nil
}

// ExistsForOrderSince reports whether a notification of the given severity
// referencing the order was created at or after the given time. Used by the
// overdue job to avoid duplicate same-day alerts.
func (r *NotificationRepository) ExistsForOrderSince(ctx context.Context, orderID int, severity string, since time.Time) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE order_id = $1 AND severity = $2 AND created_at >= $3
		)
	`, orderID, severity, since).Scan(&exists)
	return exists, err
}
