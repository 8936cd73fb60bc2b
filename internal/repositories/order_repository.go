package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository owns the four-entity order aggregate. Every mutation that
// touches more than one row runs in a single transaction; capacity slots are
// reserved and released through CapacityRepository inside that same
// transaction so the ledger cannot diverge from the bookings.
type OrderRepository struct {
	DB       *pgxpool.Pool
	Capacity *CapacityRepository
}

func NewOrderRepository(db *pgxpool.Pool, capacity *CapacityRepository) *OrderRepository {
	return &OrderRepository{DB: db, Capacity: capacity}
}

const orderSelect = `
	SELECT o.id, o.customer_id, c.name, c.phone, c.location,
	       o.product_type, o.salesperson, o.note, o.created_at, o.updated_at,
	       p.id, p.quantity, p.unit_price, p.total_price, p.amount_paid,
	       p.method, p.paid_in_full, p.debt_class, p.received_by, p.created_at, p.updated_at,
	       d.id, d.measurer, d.measurement_date, d.measurement_status,
	       d.sender, d.installer, d.scheduled_date, d.product_status, d.printed,
	       d.raw_length, d.raw_width, d.length_profile, d.width_profile, d.created_at, d.updated_at
	FROM orders o
	JOIN customers c ON o.customer_id = c.id
	JOIN payments p ON p.order_id = o.id
	JOIN fabrication_details d ON d.order_id = o.id
`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{
		Payment: &models.Payment{},
		Detail:  &models.FabricationDetail{},
	}
	err := row.Scan(
		&order.ID, &order.CustomerID, &order.CustomerName, &order.CustomerPhone, &order.CustomerLocation,
		&order.ProductType, &order.Salesperson, &order.Note, &order.CreatedAt, &order.UpdatedAt,
		&order.Payment.ID, &order.Payment.Quantity, &order.Payment.UnitPrice,
		&order.Payment.TotalPrice, &order.Payment.AmountPaid, &order.Payment.Method,
		&order.Payment.PaidInFull, &order.Payment.DebtClass, &order.Payment.ReceivedBy,
		&order.Payment.CreatedAt, &order.Payment.UpdatedAt,
		&order.Detail.ID, &order.Detail.Measurer, &order.Detail.MeasurementDate,
		&order.Detail.MeasurementStatus, &order.Detail.Sender, &order.Detail.Installer,
		&order.Detail.ScheduledDate, &order.Detail.ProductStatus, &order.Detail.Printed,
		&order.Detail.RawLength, &order.Detail.RawWidth,
		&order.Detail.LengthProfile, &order.Detail.WidthProfile,
		&order.Detail.CreatedAt, &order.Detail.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Payment.OrderID = order.ID
	order.Detail.OrderID = order.ID
	return order, nil
}

func scanOrders(rows pgx.Rows) ([]*models.Order, error) {
	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// Create persists the customer (when new), reserves the capacity slot(s) and
// writes order, payment and fabrication detail as one transaction. Any
// failure rolls the whole operation back; no partial order is ever visible.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if order.CustomerID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO customers (name, phone, location)
			VALUES ($1, $2, $3) RETURNING id
		`, order.CustomerName, order.CustomerPhone, order.CustomerLocation).Scan(&order.CustomerID)
		if err != nil {
			return err
		}
	} else {
		err = tx.QueryRow(ctx, `
			SELECT name, phone, location FROM customers WHERE id = $1
		`, order.CustomerID).Scan(&order.CustomerName, &order.CustomerPhone, &order.CustomerLocation)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: customer %d", models.ErrNotFound, order.CustomerID)
		}
		if err != nil {
			return err
		}
	}

	for _, pool := range models.CapacityPools(order.ProductType) {
		if err := r.Capacity.ReserveSlotTx(ctx, tx, order.Detail.ScheduledDate, pool); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, product_type, salesperson, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, order.CustomerID, order.ProductType, order.Salesperson, order.Note,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return err
	}

	p := order.Payment
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (order_id, quantity, unit_price, total_price, amount_paid,
		                      method, paid_in_full, debt_class, received_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, order.ID, p.Quantity, p.UnitPrice, p.TotalPrice, p.AmountPaid,
		p.Method, p.PaidInFull, p.DebtClass, p.ReceivedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.OrderID = order.ID

	d := order.Detail
	err = tx.QueryRow(ctx, `
		INSERT INTO fabrication_details (order_id, measurer, measurement_date, measurement_status,
		                                 sender, installer, scheduled_date, product_status, printed,
		                                 raw_length, raw_width, length_profile, width_profile)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, order.ID, d.Measurer, d.MeasurementDate, d.MeasurementStatus,
		d.Sender, d.Installer, d.ScheduledDate, d.ProductStatus, d.Printed,
		d.RawLength, d.RawWidth, d.LengthProfile, d.WidthProfile,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}
	d.OrderID = order.ID

	return tx.Commit(ctx)
}

func (r *OrderRepository) Get(ctx context.Context, id int) (*models.Order, error) {
	order, err := scanOrder(r.DB.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+` ORDER BY d.scheduled_date, o.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) ListByDay(ctx context.Context, date time.Time) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+` WHERE d.scheduled_date = $1 ORDER BY o.id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) ListByMeasurementStatus(ctx context.Context, status string) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+` WHERE d.measurement_status = $1 ORDER BY d.scheduled_date, o.id`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListDebts returns orders with an outstanding balance attributed to the
// given payment method.
func (r *OrderRepository) ListDebts(ctx context.Context, method string) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+` WHERE p.debt_class = $1 ORDER BY d.scheduled_date, o.id`, method)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (r *OrderRepository) DebtSummary(ctx context.Context) (*models.DebtSummary, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.debt_class, COUNT(*), COALESCE(SUM(p.total_price - p.amount_paid), 0)
		FROM payments p
		WHERE p.debt_class <> 'none'
		GROUP BY p.debt_class
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &models.DebtSummary{}
	for rows.Next() {
		var class string
		var count int
		var total float64
		if err := rows.Scan(&class, &count, &total); err != nil {
			return nil, err
		}
		switch class {
		case models.DebtCash:
			summary.CashOrders, summary.CashTotal = count, total
		case models.DebtBank:
			summary.BankOrders, summary.BankTotal = count, total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	summary.TotalOrders = summary.CashOrders + summary.BankOrders
	summary.Total = summary.CashTotal + summary.BankTotal
	return summary, nil
}

// ListOverdue returns orders scheduled strictly before the cutoff whose
// fabrication is not completed.
func (r *OrderRepository) ListOverdue(ctx context.Context, before time.Time) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+`
		WHERE d.scheduled_date < $1 AND d.product_status <> $2
		ORDER BY d.scheduled_date, o.id
	`, before, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// ListPendingSince returns orders created before the cutoff whose fabrication
// is still not completed.
func (r *OrderRepository) ListPendingSince(ctx context.Context, cutoff time.Time) ([]*models.Order, error) {
	rows, err := r.DB.Query(ctx, orderSelect+`
		WHERE o.created_at < $1 AND d.product_status <> $2
		ORDER BY o.created_at, o.id
	`, cutoff, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

// Update writes the order row together with its payment and fabrication
// detail in one transaction.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET salesperson = $1, note = $2, updated_at = NOW() WHERE id = $3
	`, order.Salesperson, order.Note, order.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", models.ErrNotFound, order.ID)
	}

	p := order.Payment
	_, err = tx.Exec(ctx, `
		UPDATE payments
		SET quantity = $1, unit_price = $2, total_price = $3, amount_paid = $4,
		    method = $5, paid_in_full = $6, debt_class = $7, received_by = $8, updated_at = NOW()
		WHERE order_id = $9
	`, p.Quantity, p.UnitPrice, p.TotalPrice, p.AmountPaid,
		p.Method, p.PaidInFull, p.DebtClass, p.ReceivedBy, order.ID)
	if err != nil {
		return err
	}

	d := order.Detail
	_, err = tx.Exec(ctx, `
		UPDATE fabrication_details
		SET measurer = $1, measurement_date = $2, measurement_status = $3,
		    sender = $4, installer = $5, product_status = $6, printed = $7,
		    raw_length = $8, raw_width = $9, length_profile = $10, width_profile = $11,
		    updated_at = NOW()
		WHERE order_id = $12
	`, d.Measurer, d.MeasurementDate, d.MeasurementStatus,
		d.Sender, d.Installer, d.ProductStatus, d.Printed,
		d.RawLength, d.RawWidth, d.LengthProfile, d.WidthProfile, order.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdatePayment writes only the payment row. A single statement, so partial
// payments never block the order row.
func (r *OrderRepository) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET amount_paid = $1, paid_in_full = $2, debt_class = $3, received_by = $4, updated_at = NOW()
		WHERE order_id = $5
	`, payment.AmountPaid, payment.PaidInFull, payment.DebtClass, payment.ReceivedBy, payment.OrderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment for order %d", models.ErrNotFound, payment.OrderID)
	}
	return nil
}

// Delete removes the order aggregate and returns its capacity slot(s) in the
// same transaction. Payments, details, supplements and notifications go with
// it via ON DELETE CASCADE.
func (r *OrderRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var productType string
	var scheduledDate time.Time
	err = tx.QueryRow(ctx, `
		SELECT o.product_type, d.scheduled_date
		FROM orders o
		JOIN fabrication_details d ON d.order_id = o.id
		WHERE o.id = $1
		FOR UPDATE OF o
	`, id).Scan(&productType, &scheduledDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	for _, pool := range models.CapacityPools(productType) {
		if err := r.Capacity.ReleaseSlotTx(ctx, tx, scheduledDate, pool); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reschedule moves the order to a new date: reserve on the new day, release
// on the old day, update the scheduled date, all in one transaction. With
// force set the new-day reservation does not fail on an exhausted pool.
func (r *OrderRepository) Reschedule(ctx context.Context, id int, newDate time.Time, force bool) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var productType string
	var oldDate time.Time
	err = tx.QueryRow(ctx, `
		SELECT o.product_type, d.scheduled_date
		FROM orders o
		JOIN fabrication_details d ON d.order_id = o.id
		WHERE o.id = $1
		FOR UPDATE OF o
	`, id).Scan(&productType, &oldDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	if err != nil {
		return err
	}

	for _, pool := range models.CapacityPools(productType) {
		if force {
			err = r.Capacity.ForceReserveSlotTx(ctx, tx, newDate, pool)
		} else {
			err = r.Capacity.ReserveSlotTx(ctx, tx, newDate, pool)
		}
		if err != nil {
			return err
		}
		if err := r.Capacity.ReleaseSlotTx(ctx, tx, oldDate, pool); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE fabrication_details SET scheduled_date = $1, updated_at = NOW() WHERE order_id = $2
	`, newDate, id)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
