package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
)

func TestCreateCapacityValidation(t *testing.T) {
	svc := NewCapacityService(newFakeCapacityStore())

	_, err := svc.CreateCapacity(context.Background(), &models.CreateCapacityRequest{Date: "not a date"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.CreateCapacity(context.Background(), &models.CreateCapacityRequest{
		Date:            "2026-09-10",
		GarageDoorSlots: -1,
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	capacity, err := svc.CreateCapacity(context.Background(), &models.CreateCapacityRequest{
		Date:                "2026-09-10",
		GarageDoorSlots:     4,
		AccessoryPanelSlots: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, capacity.ID)
	assert.Equal(t, 4, capacity.GarageDoorSlots)
}

func TestUpdateCapacityPartialPatch(t *testing.T) {
	store := newFakeCapacityStore()
	store.setDay("2026-09-10", 4, 2)
	svc := NewCapacityService(store)

	day, err := store.GetByDate(context.Background(), mustDate(t, "2026-09-10"))
	require.NoError(t, err)

	one := 1
	updated, err := svc.UpdateCapacity(context.Background(), day.ID, &models.UpdateCapacityRequest{AccessoryPanelSlots: &one})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.GarageDoorSlots)
	assert.Equal(t, 1, updated.AccessoryPanelSlots)

	negative := -2
	_, err = svc.UpdateCapacity(context.Background(), day.ID, &models.UpdateCapacityRequest{GarageDoorSlots: &negative})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCheckAvailability(t *testing.T) {
	store := newFakeCapacityStore()
	store.setDay("2026-09-10", 1, 0)
	svc := NewCapacityService(store)

	available, err := svc.CheckAvailability(context.Background(), "2026-09-10", models.ProductGarageDoor)
	require.NoError(t, err)
	assert.True(t, available)

	available, err = svc.CheckAvailability(context.Background(), "2026-09-10", models.ProductCombined)
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.CheckAvailability(context.Background(), "2026-09-10", models.ProductRoomDoor)
	require.NoError(t, err)
	assert.True(t, available)

	_, err = svc.CheckAvailability(context.Background(), "2026-09-11", models.ProductGarageDoor)
	assert.ErrorIs(t, err, models.ErrCapacityUndefined)
}
