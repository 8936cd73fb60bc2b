package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/timeutil"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := timeutil.ParseDate(value)
	require.NoError(t, err)
	return day
}

// In-memory store fakes. The order fake enforces the same capacity rules as
// the database transaction: slots are checked and decremented atomically
// under one lock, and a create that trips any rule leaves nothing behind.

type fakeCapacityStore struct {
	mu     sync.Mutex
	nextID int
	days   map[string]*models.DailyCapacity
}

func newFakeCapacityStore() *fakeCapacityStore {
	return &fakeCapacityStore{days: make(map[string]*models.DailyCapacity)}
}

func (s *fakeCapacityStore) setDay(date string, garage, panel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, _ := timeutil.ParseDate(date)
	s.nextID++
	s.days[date] = &models.DailyCapacity{
		ID:                  s.nextID,
		Date:                day,
		GarageDoorSlots:     garage,
		AccessoryPanelSlots: panel,
	}
}

func (s *fakeCapacityStore) slots(date string) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.days[date]
	return day.GarageDoorSlots, day.AccessoryPanelSlots
}

func (s *fakeCapacityStore) Create(ctx context.Context, c *models.DailyCapacity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := timeutil.FormatDate(c.Date)
	if _, ok := s.days[key]; ok {
		return fmt.Errorf("%w: day already defined", models.ErrValidation)
	}
	s.nextID++
	c.ID = s.nextID
	clone := *c
	s.days[key] = &clone
	return nil
}

func (s *fakeCapacityStore) Update(ctx context.Context, c *models.DailyCapacity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *c
	s.days[timeutil.FormatDate(c.Date)] = &clone
	return nil
}

func (s *fakeCapacityStore) GetByID(ctx context.Context, id int) (*models.DailyCapacity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, day := range s.days {
		if day.ID == id {
			clone := *day
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: capacity %d", models.ErrNotFound, id)
}

func (s *fakeCapacityStore) GetByDate(ctx context.Context, date time.Time) (*models.DailyCapacity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.days[timeutil.FormatDate(date)]
	if !ok {
		return nil, fmt.Errorf("%w: no capacity for %s", models.ErrCapacityUndefined, timeutil.FormatDate(date))
	}
	clone := *day
	return &clone, nil
}

func (s *fakeCapacityStore) List(ctx context.Context) ([]*models.DailyCapacity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.DailyCapacity
	for _, day := range s.days {
		clone := *day
		out = append(out, &clone)
	}
	return out, nil
}

func (s *fakeCapacityStore) ListUpcoming(ctx context.Context, from time.Time) ([]*models.DailyCapacity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.DailyCapacity
	for _, day := range s.days {
		if !day.Date.Before(from) {
			clone := *day
			out = append(out, &clone)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Date.Before(out[i].Date) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

// reserve decrements one slot per pool under the lock. Without force a day
// with an exhausted pool is rejected with no side effects; with force the
// exhausted pool stays clamped at zero.
func (s *fakeCapacityStore) reserve(date time.Time, pools []string, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.days[timeutil.FormatDate(date)]
	if !ok {
		if len(pools) == 0 {
			return nil
		}
		return fmt.Errorf("%w: no capacity for %s", models.ErrCapacityUndefined, timeutil.FormatDate(date))
	}
	if !force {
		for _, pool := range pools {
			if day.SlotsFor(pool) <= 0 {
				return fmt.Errorf("%w: no %s slots left on %s", models.ErrCapacityExhausted, pool, timeutil.FormatDate(date))
			}
		}
	}
	for _, pool := range pools {
		s.dec(day, pool)
	}
	return nil
}

func (s *fakeCapacityStore) dec(day *models.DailyCapacity, pool string) {
	switch pool {
	case models.PoolGarageDoor:
		if day.GarageDoorSlots > 0 {
			day.GarageDoorSlots--
		}
	case models.PoolAccessoryPanel:
		if day.AccessoryPanelSlots > 0 {
			day.AccessoryPanelSlots--
		}
	}
}

func (s *fakeCapacityStore) release(date time.Time, pools []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.days[timeutil.FormatDate(date)]
	if !ok {
		return
	}
	for _, pool := range pools {
		switch pool {
		case models.PoolGarageDoor:
			day.GarageDoorSlots++
		case models.PoolAccessoryPanel:
			day.AccessoryPanelSlots++
		}
	}
}

type fakeOrderStore struct {
	mu         sync.Mutex
	nextID     int
	orders     map[int]*models.Order
	capacities *fakeCapacityStore
	failCreate error
	clock      func() time.Time
}

func newFakeOrderStore(capacities *fakeCapacityStore) *fakeOrderStore {
	return &fakeOrderStore{
		orders:     make(map[int]*models.Order),
		capacities: capacities,
		clock:      time.Now,
	}
}

func cloneOrder(o *models.Order) *models.Order {
	clone := *o
	if o.Payment != nil {
		p := *o.Payment
		clone.Payment = &p
	}
	if o.Detail != nil {
		d := *o.Detail
		clone.Detail = &d
	}
	return &clone
}

func (s *fakeOrderStore) Create(ctx context.Context, order *models.Order) error {
	if s.failCreate != nil {
		return s.failCreate
	}
	if s.capacities != nil {
		if err := s.capacities.reserve(order.Detail.ScheduledDate, models.CapacityPools(order.ProductType), false); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	order.ID = s.nextID
	order.CreatedAt = s.clock()
	if order.Payment != nil {
		order.Payment.OrderID = order.ID
	}
	if order.Detail != nil {
		order.Detail.OrderID = order.ID
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *fakeOrderStore) Get(ctx context.Context, id int) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return cloneOrder(order), nil
}

func (s *fakeOrderStore) List(ctx context.Context) ([]*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Order
	for i := 1; i <= s.nextID; i++ {
		if order, ok := s.orders[i]; ok {
			out = append(out, cloneOrder(order))
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListByDay(ctx context.Context, date time.Time) ([]*models.Order, error) {
	all, _ := s.List(ctx)
	var out []*models.Order
	for _, order := range all {
		if timeutil.SameDay(order.Detail.ScheduledDate, date) {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListByMeasurementStatus(ctx context.Context, status string) ([]*models.Order, error) {
	all, _ := s.List(ctx)
	var out []*models.Order
	for _, order := range all {
		if order.Detail.MeasurementStatus == status {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListDebts(ctx context.Context, method string) ([]*models.Order, error) {
	all, _ := s.List(ctx)
	var out []*models.Order
	for _, order := range all {
		if order.Payment.DebtClass == method {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) DebtSummary(ctx context.Context) (*models.DebtSummary, error) {
	all, _ := s.List(ctx)
	summary := &models.DebtSummary{}
	for _, order := range all {
		remaining := order.Payment.Remaining()
		switch order.Payment.DebtClass {
		case models.DebtCash:
			summary.CashOrders++
			summary.CashTotal += remaining
		case models.DebtBank:
			summary.BankOrders++
			summary.BankTotal += remaining
		default:
			continue
		}
		summary.TotalOrders++
		summary.Total += remaining
	}
	return summary, nil
}

func (s *fakeOrderStore) ListOverdue(ctx context.Context, before time.Time) ([]*models.Order, error) {
	all, _ := s.List(ctx)
	var out []*models.Order
	for _, order := range all {
		if order.Detail.ScheduledDate.Before(before) && order.Detail.ProductStatus != models.StatusCompleted {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) ListPendingSince(ctx context.Context, cutoff time.Time) ([]*models.Order, error) {
	all, _ := s.List(ctx)
	var out []*models.Order
	for _, order := range all {
		if order.CreatedAt.Before(cutoff) && order.Detail.ProductStatus != models.StatusCompleted {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) Update(ctx context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return fmt.Errorf("%w: order %d", models.ErrNotFound, order.ID)
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *fakeOrderStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[payment.OrderID]
	if !ok {
		return fmt.Errorf("%w: order %d", models.ErrNotFound, payment.OrderID)
	}
	p := *payment
	order.Payment = &p
	return nil
}

func (s *fakeOrderStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	delete(s.orders, id)
	s.mu.Unlock()

	if s.capacities != nil {
		s.capacities.release(order.Detail.ScheduledDate, models.CapacityPools(order.ProductType))
	}
	return nil
}

func (s *fakeOrderStore) Reschedule(ctx context.Context, id int, newDate time.Time, force bool) error {
	s.mu.Lock()
	order, ok := s.orders[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	oldDate := order.Detail.ScheduledDate
	pools := models.CapacityPools(order.ProductType)
	s.mu.Unlock()

	if s.capacities != nil {
		if err := s.capacities.reserve(newDate, pools, force); err != nil {
			return err
		}
		s.capacities.release(oldDate, pools)
	}

	s.mu.Lock()
	order.Detail.ScheduledDate = newDate
	s.mu.Unlock()
	return nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	nextID        int
	notifications []*models.Notification
	clock         func() time.Time
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{clock: time.Now}
}

func (s *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clock()
	}
	clone := *n
	s.notifications = append(s.notifications, &clone)
	return nil
}

func (s *fakeNotificationStore) List(ctx context.Context) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out, nil
}

func (s *fakeNotificationStore) MarkRead(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return fmt.Errorf("%w: notification %d", models.ErrNotFound, id)
}

func (s *fakeNotificationStore) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		n.Read = true
	}
	return nil
}

func (s *fakeNotificationStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: notification %d", models.ErrNotFound, id)
}

func (s *fakeNotificationStore) ExistsForOrderSince(ctx context.Context, orderID int, severity string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.OrderID != nil && *n.OrderID == orderID && n.Severity == severity && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type fakeSupplementStore struct {
	mu          sync.Mutex
	nextID      int
	supplements map[int]*models.SupplementaryOrder
}

func newFakeSupplementStore() *fakeSupplementStore {
	return &fakeSupplementStore{supplements: make(map[int]*models.SupplementaryOrder)}
}

func (s *fakeSupplementStore) Create(ctx context.Context, supplement *models.SupplementaryOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	supplement.ID = s.nextID
	clone := *supplement
	s.supplements[supplement.ID] = &clone
	return nil
}

func (s *fakeSupplementStore) Get(ctx context.Context, id int) (*models.SupplementaryOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	supplement, ok := s.supplements[id]
	if !ok {
		return nil, fmt.Errorf("%w: supplementary order %d", models.ErrNotFound, id)
	}
	clone := *supplement
	return &clone, nil
}

func (s *fakeSupplementStore) ListByOrder(ctx context.Context, orderID int) ([]*models.SupplementaryOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.SupplementaryOrder
	for i := 1; i <= s.nextID; i++ {
		if supplement, ok := s.supplements[i]; ok && supplement.OrderID == orderID {
			clone := *supplement
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakeSupplementStore) Update(ctx context.Context, supplement *models.SupplementaryOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.supplements[supplement.ID]; !ok {
		return fmt.Errorf("%w: supplementary order %d", models.ErrNotFound, supplement.ID)
	}
	clone := *supplement
	s.supplements[supplement.ID] = &clone
	return nil
}

func (s *fakeSupplementStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.supplements[id]; !ok {
		return fmt.Errorf("%w: supplementary order %d", models.ErrNotFound, id)
	}
	delete(s.supplements, id)
	return nil
}
