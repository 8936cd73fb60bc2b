package models

import "time"

// Notification severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityUrgent  = "urgent"
)

type Notification struct {
	ID        int       `json:"id"`
	OrderID   *int      `json:"order_id,omitempty"` // nil for system-wide notices
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Severity  string    `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
