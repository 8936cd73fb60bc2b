package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/timeutil"
)

func newSchedulerFixture(now time.Time) (*SchedulerService, *fakeOrderStore, *fakeNotificationStore) {
	orders := newFakeOrderStore(nil)
	notifications := newFakeNotificationStore()
	notifier := NewNotificationService(notifications, nil)
	svc := NewSchedulerService(orders, notifier, "0 8 * * *", "0 20 * * *", "0 8 * * 1")
	svc.now = func() time.Time { return now }
	notifications.clock = svc.now
	return svc, orders, notifications
}

func seedOrder(t *testing.T, orders *fakeOrderStore, name, scheduled, status string, createdAt time.Time) *models.Order {
	t.Helper()
	day, err := timeutil.ParseDate(scheduled)
	require.NoError(t, err)

	orders.clock = func() time.Time { return createdAt }
	order := &models.Order{
		CustomerName: name,
		ProductType:  models.ProductRoomDoor,
		Payment: &models.Payment{
			TotalPrice: 500,
			AmountPaid: 100,
			Method:     models.MethodCash,
			DebtClass:  models.DebtCash,
		},
		Detail: &models.FabricationDetail{
			ScheduledDate: day,
			ProductStatus: status,
		},
	}
	require.NoError(t, orders.Create(context.Background(), order))
	return order
}

func TestRunOverdueCheckFlagsOncePerDay(t *testing.T) {
	now := time.Date(2026, 9, 20, 10, 0, 0, 0, time.Local)
	svc, orders, notifications := newSchedulerFixture(now)

	overdue := seedOrder(t, orders, "Blerta Krasniqi", "2026-09-15", models.StatusInProgress, now.AddDate(0, 0, -6))
	seedOrder(t, orders, "Driton Gashi", "2026-09-19", models.StatusInProgress, now.AddDate(0, 0, -2))
	seedOrder(t, orders, "Vlora Berisha", "2026-09-10", models.StatusCompleted, now.AddDate(0, 0, -12))

	require.NoError(t, svc.RunOverdueCheck(context.Background()))

	all, _ := notifications.List(context.Background())
	require.Len(t, all, 2)
	assert.Equal(t, models.SeverityUrgent, all[0].Severity)
	require.NotNil(t, all[0].OrderID)
	assert.Equal(t, overdue.ID, *all[0].OrderID)
	assert.Equal(t, models.SeverityWarning, all[1].Severity)
	assert.Nil(t, all[1].OrderID)

	// Same day, second run: nothing new.
	require.NoError(t, svc.RunOverdueCheck(context.Background()))
	all, _ = notifications.List(context.Background())
	assert.Len(t, all, 2)
}

func TestRunOverdueCheckFlagsAgainNextDay(t *testing.T) {
	now := time.Date(2026, 9, 20, 10, 0, 0, 0, time.Local)
	svc, orders, notifications := newSchedulerFixture(now)
	seedOrder(t, orders, "Blerta Krasniqi", "2026-09-15", models.StatusInProgress, now.AddDate(0, 0, -6))

	require.NoError(t, svc.RunOverdueCheck(context.Background()))

	svc.now = func() time.Time { return now.AddDate(0, 0, 1) }
	require.NoError(t, svc.RunOverdueCheck(context.Background()))

	all, _ := notifications.List(context.Background())
	urgent := 0
	for _, n := range all {
		if n.Severity == models.SeverityUrgent {
			urgent++
		}
	}
	assert.Equal(t, 2, urgent)
}

func TestRunDebtReportOnlyOnLastDayOfMonth(t *testing.T) {
	midMonth := time.Date(2026, 9, 15, 20, 0, 0, 0, time.Local)
	svc, orders, notifications := newSchedulerFixture(midMonth)
	seedOrder(t, orders, "Blerta Krasniqi", "2026-09-25", models.StatusInProgress, midMonth)

	require.NoError(t, svc.RunDebtReport(context.Background()))
	all, _ := notifications.List(context.Background())
	assert.Empty(t, all)

	svc.now = func() time.Time { return time.Date(2026, 9, 30, 20, 0, 0, 0, time.Local) }
	require.NoError(t, svc.RunDebtReport(context.Background()))

	all, _ = notifications.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, models.SeverityInfo, all[0].Severity)
	assert.Nil(t, all[0].OrderID)
	assert.Contains(t, all[0].Message, "400.00")
}

func TestRunLongPendingCheck(t *testing.T) {
	now := time.Date(2026, 9, 20, 8, 0, 0, 0, time.Local)
	svc, orders, notifications := newSchedulerFixture(now)

	stale := seedOrder(t, orders, "Blerta Krasniqi", "2026-09-25", models.StatusInProgress, now.AddDate(0, 0, -10))
	seedOrder(t, orders, "Driton Gashi", "2026-09-25", models.StatusInProgress, now.AddDate(0, 0, -2))
	seedOrder(t, orders, "Vlora Berisha", "2026-09-25", models.StatusCompleted, now.AddDate(0, 0, -20))

	require.NoError(t, svc.RunLongPendingCheck(context.Background()))

	all, _ := notifications.List(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, models.SeverityWarning, all[0].Severity)
	require.NotNil(t, all[0].OrderID)
	assert.Equal(t, stale.ID, *all[0].OrderID)
	assert.Contains(t, all[0].Message, "10 days")
}

func TestSchedulerLifecycle(t *testing.T) {
	svc, _, _ := newSchedulerFixture(time.Now())
	defer svc.Stop()

	require.NoError(t, svc.Initialize())
	require.NoError(t, svc.Initialize())

	status := svc.Status()
	require.Len(t, status, 3)
	for _, job := range status {
		assert.Equal(t, true, job["running"])
	}

	require.NoError(t, svc.StopJob(JobDebtReport))
	assert.Equal(t, false, svc.Status()[JobDebtReport]["running"])
	assert.ErrorIs(t, svc.StopJob(JobDebtReport), models.ErrNotFound)

	require.NoError(t, svc.StartJob(JobDebtReport))
	assert.Equal(t, true, svc.Status()[JobDebtReport]["running"])

	assert.ErrorIs(t, svc.StartJob("nightly-backup"), models.ErrNotFound)
}
