package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
)

func newSupplementFixture(t *testing.T) (*SupplementService, *models.Order, *models.Order) {
	t.Helper()
	capacities := newFakeCapacityStore()
	capacities.setDay("2026-09-10", 5, 5)
	orders := newFakeOrderStore(capacities)
	orderSvc := NewOrderService(orders, NewNotificationService(newFakeNotificationStore(), nil))

	garage, err := orderSvc.CreateOrder(context.Background(), garageDoorRequest("2026-09-10"))
	require.NoError(t, err)

	panelReq := garageDoorRequest("2026-09-10")
	panelReq.ProductType = models.ProductAccessoryPanel
	panel, err := orderSvc.CreateOrder(context.Background(), panelReq)
	require.NoError(t, err)

	return NewSupplementService(newFakeSupplementStore(), orders), garage, panel
}

func TestCreateSupplementOnGarageDoorOrder(t *testing.T) {
	svc, garage, _ := newSupplementFixture(t)

	supplement, err := svc.CreateSupplement(context.Background(), garage.ID, &models.CreateSupplementRequest{
		Description: "remote control",
		Price:       80,
		AmountPaid:  30,
		Method:      models.MethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, garage.ID, supplement.OrderID)
	assert.Equal(t, "Prishtina", supplement.Location)
	assert.Equal(t, 50.0, supplement.Remaining())
	assert.Equal(t, models.DebtCash, supplement.DebtClass)
}

func TestCreateSupplementRejectedForOtherProducts(t *testing.T) {
	svc, _, panel := newSupplementFixture(t)

	_, err := svc.CreateSupplement(context.Background(), panel.ID, &models.CreateSupplementRequest{
		Description: "remote control",
		Price:       80,
		Method:      models.MethodCash,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSupplementPartialPaymentBounds(t *testing.T) {
	svc, garage, _ := newSupplementFixture(t)

	supplement, err := svc.CreateSupplement(context.Background(), garage.ID, &models.CreateSupplementRequest{
		Description: "side rails",
		Price:       120,
		Method:      models.MethodBank,
	})
	require.NoError(t, err)
	require.Equal(t, models.DebtBank, supplement.DebtClass)

	_, err = svc.AddPartialPayment(context.Background(), supplement.ID, 200)
	assert.ErrorIs(t, err, models.ErrInvalidAmount)

	updated, err := svc.AddPartialPayment(context.Background(), supplement.ID, 120)
	require.NoError(t, err)
	assert.Zero(t, updated.Remaining())
	assert.Equal(t, models.DebtNone, updated.DebtClass)
}

func TestUpdateSupplementRederivesDebt(t *testing.T) {
	svc, garage, _ := newSupplementFixture(t)

	supplement, err := svc.CreateSupplement(context.Background(), garage.ID, &models.CreateSupplementRequest{
		Description: "motor upgrade",
		Price:       200,
		AmountPaid:  200,
		Method:      models.MethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, models.DebtNone, supplement.DebtClass)

	newPrice := 250.0
	updated, err := svc.UpdateSupplement(context.Background(), supplement.ID, &models.UpdateSupplementRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, models.DebtCash, updated.DebtClass)
	assert.Equal(t, 50.0, updated.Remaining())
}
