package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/AMurtezaj/door-management-system-sub000/internal/timeutil"
)

// Background job names.
const (
	JobOverdueCheck     = "overdue_check"
	JobDebtReport       = "debt_report"
	JobLongPendingCheck = "long_pending_check"
)

// longPendingAfter is how long an in-progress order may sit before the
// weekly sweep flags it.
const longPendingAfter = 7 * 24 * time.Hour

// SchedulerService runs the periodic jobs: the daily overdue sweep, the
// end-of-month debt report and the weekly long-pending sweep. Jobs can be
// stopped and restarted individually at runtime.
type SchedulerService struct {
	orders   OrderStore
	notifier *NotificationService

	cron  *cron.Cron
	specs map[string]string
	now   func() time.Time

	mu          sync.Mutex
	entries     map[string]cron.EntryID
	initialized bool
}

func NewSchedulerService(orders OrderStore, notifier *NotificationService, overdueSpec, debtReportSpec, longPendingSpec string) *SchedulerService {
	return &SchedulerService{
		orders:   orders,
		notifier: notifier,
		cron:     cron.New(),
		specs: map[string]string{
			JobOverdueCheck:     overdueSpec,
			JobDebtReport:       debtReportSpec,
			JobLongPendingCheck: longPendingSpec,
		},
		now:     time.Now,
		entries: make(map[string]cron.EntryID),
	}
}

// Initialize registers all jobs and starts the cron runner. Calling it again
// is a no-op.
func (s *SchedulerService) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	for name := range s.specs {
		if err := s.addJobLocked(name); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.initialized = true
	log.Printf("[Scheduler] started %d jobs", len(s.entries))
	return nil
}

func (s *SchedulerService) addJobLocked(name string) error {
	var run func()
	switch name {
	case JobOverdueCheck:
		run = func() { s.logJobError(name, s.RunOverdueCheck(context.Background())) }
	case JobDebtReport:
		run = func() { s.logJobError(name, s.RunDebtReport(context.Background())) }
	case JobLongPendingCheck:
		run = func() { s.logJobError(name, s.RunLongPendingCheck(context.Background())) }
	default:
		return fmt.Errorf("%w: unknown job %q", models.ErrValidation, name)
	}

	id, err := s.cron.AddFunc(s.specs[name], run)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.entries[name] = id
	return nil
}

func (s *SchedulerService) logJobError(name string, err error) {
	if err != nil {
		log.Printf("[Scheduler] job %s failed: %v", name, err)
	}
}

// StopJob removes a job from the schedule. The job can be started again
// later; stopping a job that is not running is an error.
func (s *SchedulerService) StopJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: job %q is not running", models.ErrNotFound, name)
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	return nil
}

// StartJob re-registers a previously stopped job.
func (s *SchedulerService) StartJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[name]; ok {
		return nil
	}
	if _, ok := s.specs[name]; !ok {
		return fmt.Errorf("%w: unknown job %q", models.ErrNotFound, name)
	}
	return s.addJobLocked(name)
}

// Status reports each known job's cron spec and whether it is scheduled.
func (s *SchedulerService) Status() map[string]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := make(map[string]map[string]any, len(s.specs))
	for name, spec := range s.specs {
		_, running := s.entries[name]
		status[name] = map[string]any{
			"spec":    spec,
			"running": running,
		}
	}
	return status
}

// Stop halts the cron runner. Pending job invocations finish first.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOverdueCheck flags every unfinished order whose production day passed
// before yesterday. Each order is flagged at most once per day; a run that
// found anything also leaves one aggregate notice.
func (s *SchedulerService) RunOverdueCheck(ctx context.Context) error {
	today := timeutil.StartOfDay(s.now())
	yesterday := today.AddDate(0, 0, -1)

	overdue, err := s.orders.ListOverdue(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("list overdue orders: %w", err)
	}

	flagged := 0
	for _, order := range overdue {
		seen, err := s.notifier.HasRecentForOrder(ctx, order.ID, models.SeverityUrgent, today)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		message := fmt.Sprintf("Order #%d for %s is overdue, scheduled for %s",
			order.ID, order.CustomerName, timeutil.FormatDate(order.Detail.ScheduledDate))
		if _, err := s.notifier.Notify(ctx, &order.ID, models.SeverityUrgent, message); err != nil {
			return err
		}
		flagged++
	}

	if flagged > 0 {
		message := fmt.Sprintf("%d orders are overdue and still unfinished", len(overdue))
		if _, err := s.notifier.Notify(ctx, nil, models.SeverityWarning, message); err != nil {
			return err
		}
	}
	return nil
}

// RunDebtReport emits the aggregate outstanding-balance report. The job runs
// daily but only publishes on the last day of the month.
func (s *SchedulerService) RunDebtReport(ctx context.Context) error {
	today := timeutil.StartOfDay(s.now())
	tomorrow := today.AddDate(0, 0, 1)
	if tomorrow.Month() == today.Month() {
		return nil
	}

	summary, err := s.orders.DebtSummary(ctx)
	if err != nil {
		return fmt.Errorf("debt summary: %w", err)
	}

	message := fmt.Sprintf("Monthly debt report for %s: %d orders owe %.2f in total (cash: %d orders / %.2f, bank: %d orders / %.2f)",
		today.Format("January 2006"),
		summary.TotalOrders, summary.Total,
		summary.CashOrders, summary.CashTotal,
		summary.BankOrders, summary.BankTotal)
	_, err = s.notifier.Notify(ctx, nil, models.SeverityInfo, message)
	return err
}

// RunLongPendingCheck flags orders that have been in progress for over a
// week since they were placed.
func (s *SchedulerService) RunLongPendingCheck(ctx context.Context) error {
	now := s.now()
	cutoff := now.Add(-longPendingAfter)

	pending, err := s.orders.ListPendingSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list long-pending orders: %w", err)
	}

	today := timeutil.StartOfDay(now)
	for _, order := range pending {
		seen, err := s.notifier.HasRecentForOrder(ctx, order.ID, models.SeverityWarning, today)
		if err != nil {
			return err
		}
		if seen {
			continue
		}
		days := int(now.Sub(order.CreatedAt).Hours() / 24)
		message := fmt.Sprintf("Order #%d for %s has been in progress for %d days",
			order.ID, order.CustomerName, days)
		if _, err := s.notifier.Notify(ctx, &order.ID, models.SeverityWarning, message); err != nil {
			return err
		}
	}
	return nil
}
