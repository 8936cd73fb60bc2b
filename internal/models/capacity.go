package models

import "time"

// Capacity pools. Only garage doors and accessory panels are capacity-bound.
const (
	PoolGarageDoor     = "garage_door"
	PoolAccessoryPanel = "accessory_panel"
)

type DailyCapacity struct {
	ID                  int       `json:"id"`
	Date                time.Time `json:"date"`
	GarageDoorSlots     int       `json:"garage_door_slots"`
	AccessoryPanelSlots int       `json:"accessory_panel_slots"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SlotsFor returns the remaining slots of the given pool.
func (c *DailyCapacity) SlotsFor(pool string) int {
	switch pool {
	case PoolGarageDoor:
		return c.GarageDoorSlots
	case PoolAccessoryPanel:
		return c.AccessoryPanelSlots
	}
	return 0
}

// HasHeadroom reports whether every listed pool still has at least one slot.
func (c *DailyCapacity) HasHeadroom(pools []string) bool {
	for _, p := range pools {
		if c.SlotsFor(p) <= 0 {
			return false
		}
	}
	return len(pools) > 0
}

// CreateCapacityRequest represents the request body for provisioning a day.
type CreateCapacityRequest struct {
	Date                string `json:"date"`
	GarageDoorSlots     int    `json:"garage_door_slots"`
	AccessoryPanelSlots int    `json:"accessory_panel_slots"`
}

// UpdateCapacityRequest adjusts the remaining slots of an existing day.
type UpdateCapacityRequest struct {
	GarageDoorSlots     *int `json:"garage_door_slots,omitempty"`
	AccessoryPanelSlots *int `json:"accessory_panel_slots,omitempty"`
}
