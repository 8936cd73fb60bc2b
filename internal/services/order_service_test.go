package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
)

func newOrderFixture() (*OrderService, *fakeOrderStore, *fakeCapacityStore, *fakeNotificationStore) {
	capacities := newFakeCapacityStore()
	orders := newFakeOrderStore(capacities)
	notifications := newFakeNotificationStore()
	notifier := NewNotificationService(notifications, nil)
	return NewOrderService(orders, notifier), orders, capacities, notifications
}

func garageDoorRequest(date string) *models.CreateOrderRequest {
	unit := 450.0
	return &models.CreateOrderRequest{
		CustomerName:     "Arben Hoxha",
		CustomerPhone:    "049111222",
		CustomerLocation: "Prishtina",
		ProductType:      models.ProductGarageDoor,
		Quantity:         2,
		UnitPrice:        &unit,
		AmountPaid:       300,
		Method:           models.MethodCash,
		ScheduledDate:    date,
	}
}

func TestCreateOrderReservesSlotAndDerivesPayment(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 3, 2)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, 900.0, order.Payment.TotalPrice)
	assert.Equal(t, 450.0, *order.Payment.UnitPrice)
	assert.Equal(t, 600.0, order.Payment.Remaining())
	assert.Equal(t, models.DebtCash, order.Payment.DebtClass)
	assert.Equal(t, models.StatusInProgress, order.Detail.ProductStatus)
	assert.Equal(t, models.MeasurementUnmeasured, order.Detail.MeasurementStatus)

	garage, panel := capacities.slots("2026-09-10")
	assert.Equal(t, 2, garage)
	assert.Equal(t, 2, panel)
}

func TestCreateOrderCombinedConsumesBothPools(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 2, 2)

	req := garageDoorRequest("2026-09-10")
	req.ProductType = models.ProductCombined
	_, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)

	garage, panel := capacities.slots("2026-09-10")
	assert.Equal(t, 1, garage)
	assert.Equal(t, 1, panel)
}

func TestCreateOrderRoomDoorIgnoresCapacity(t *testing.T) {
	svc, _, _, _ := newOrderFixture()

	req := garageDoorRequest("2026-09-10")
	req.ProductType = models.ProductRoomDoor
	_, err := svc.CreateOrder(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateOrderUndefinedDayRejected(t *testing.T) {
	svc, orders, _, _ := newOrderFixture()

	_, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	assert.ErrorIs(t, err, models.ErrCapacityUndefined)

	all, _ := orders.List(context.Background())
	assert.Empty(t, all)
}

func TestCreateOrderExhaustedDayLeavesNothingBehind(t *testing.T) {
	svc, orders, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 0, 5)

	_, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	assert.ErrorIs(t, err, models.ErrCapacityExhausted)

	all, _ := orders.List(context.Background())
	assert.Empty(t, all)
	garage, panel := capacities.slots("2026-09-10")
	assert.Equal(t, 0, garage)
	assert.Equal(t, 5, panel)
}

func TestCreateOrderLastSlotSingleWinner(t *testing.T) {
	svc, orders, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 1, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrCapacityExhausted)
		}
	}
	assert.Equal(t, 1, succeeded)

	all, _ := orders.List(context.Background())
	assert.Len(t, all, 1)
	garage, _ := capacities.slots("2026-09-10")
	assert.Equal(t, 0, garage)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	tests := []struct {
		name   string
		mutate func(*models.CreateOrderRequest)
	}{
		{"unknown product type", func(r *models.CreateOrderRequest) { r.ProductType = "window" }},
		{"unknown method", func(r *models.CreateOrderRequest) { r.Method = "crypto" }},
		{"missing customer", func(r *models.CreateOrderRequest) { r.CustomerName = ""; r.CustomerPhone = "" }},
		{"missing scheduled date", func(r *models.CreateOrderRequest) { r.ScheduledDate = "" }},
		{"malformed date", func(r *models.CreateOrderRequest) { r.ScheduledDate = "10/09/2026" }},
		{"negative deposit", func(r *models.CreateOrderRequest) { r.AmountPaid = -50 }},
		{"no price and not incomplete", func(r *models.CreateOrderRequest) { r.UnitPrice = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := garageDoorRequest("2026-09-10")
			tt.mutate(req)
			_, err := svc.CreateOrder(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestCreateOrderIncompleteWithoutPrices(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	req := garageDoorRequest("2026-09-10")
	req.UnitPrice = nil
	req.AmountPaid = 0
	req.Incomplete = true

	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, order.Payment.UnitPrice)
	assert.Zero(t, order.Payment.TotalPrice)
	assert.Equal(t, models.DebtNone, order.Payment.DebtClass)
}

func TestUpdateOrderRederivesPrices(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	three := 3
	updated, err := svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{Quantity: &three})
	require.NoError(t, err)
	assert.Equal(t, 1350.0, updated.Payment.TotalPrice)

	newTotal := 1200.0
	updated, err = svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{TotalPrice: &newTotal})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, updated.Payment.TotalPrice)
	assert.Equal(t, 400.0, *updated.Payment.UnitPrice)
}

func TestUpdateOrderStatusOrthogonalToPayment(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	completed := models.StatusCompleted
	updated, err := svc.UpdateOrder(context.Background(), order.ID, &models.UpdateOrderRequest{ProductStatus: &completed})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Detail.ProductStatus)
	assert.Equal(t, models.DebtCash, updated.Payment.DebtClass)
	assert.Equal(t, 600.0, updated.Payment.Remaining())
}

func TestSetPaidInFullClearsDebt(t *testing.T) {
	svc, orders, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	updated, err := svc.SetPaidInFull(context.Background(), order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.DebtNone, updated.Payment.DebtClass)
	assert.Equal(t, 600.0, updated.Payment.Remaining())

	stored, _ := orders.Get(context.Background(), order.ID)
	assert.Equal(t, models.DebtNone, stored.Payment.DebtClass)
	assert.Equal(t, models.StatusInProgress, stored.Detail.ProductStatus)
}

func TestAddPartialPayment(t *testing.T) {
	svc, orders, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	updated, err := svc.AddPartialPayment(context.Background(), order.ID, 400, "Fatmir")
	require.NoError(t, err)
	assert.Equal(t, 700.0, updated.Payment.AmountPaid)
	assert.Equal(t, "Fatmir", updated.Payment.ReceivedBy)
	assert.Equal(t, models.DebtCash, updated.Payment.DebtClass)

	updated, err = svc.AddPartialPayment(context.Background(), order.ID, 200, "Fatmir")
	require.NoError(t, err)
	assert.Equal(t, models.DebtNone, updated.Payment.DebtClass)
	assert.Zero(t, updated.Payment.Remaining())

	_, err = svc.AddPartialPayment(context.Background(), order.ID, 1, "Fatmir")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	_, err = svc.AddPartialPayment(context.Background(), order.ID, -10, "Fatmir")
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	stored, _ := orders.Get(context.Background(), order.ID)
	assert.Equal(t, 900.0, stored.Payment.AmountPaid)
}

func TestCancelPartialPayment(t *testing.T) {
	svc, _, capacities, notifications := newOrderFixture()
	capacities.setDay("2026-09-10", 5, 5)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	_, err = svc.CancelPartialPayment(context.Background(), order.ID, 500)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	updated, err := svc.CancelPartialPayment(context.Background(), order.ID, 300)
	require.NoError(t, err)
	assert.Zero(t, updated.Payment.AmountPaid)
	assert.Equal(t, models.DebtCash, updated.Payment.DebtClass)

	all, _ := notifications.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, models.SeverityInfo, all[0].Severity)
	require.NotNil(t, all[0].OrderID)
	assert.Equal(t, order.ID, *all[0].OrderID)
}

func TestDeleteOrderReleasesCapacity(t *testing.T) {
	svc, _, capacities, _ := newOrderFixture()
	capacities.setDay("2026-09-10", 1, 1)

	order, err := svc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)
	garage, _ := capacities.slots("2026-09-10")
	require.Equal(t, 0, garage)

	require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))
	garage, _ = capacities.slots("2026-09-10")
	assert.Equal(t, 1, garage)

	_, err = svc.GetOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
