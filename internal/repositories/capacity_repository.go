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

type CapacityRepository struct {
	DB *pgxpool.Pool
}

func NewCapacityRepository(db *pgxpool.Pool) *CapacityRepository {
	return &CapacityRepository{DB: db}
}

// slotColumn maps a capacity pool to its column. Pools are a closed set; the
// column name is never taken from user input.
func slotColumn(pool string) (string, error) {
	switch pool {
	case models.PoolGarageDoor:
		return "garage_door_slots", nil
	case models.PoolAccessoryPanel:
		return "accessory_panel_slots", nil
	}
	return "", fmt.Errorf("unknown capacity pool %q", pool)
}

func (r *CapacityRepository) Create(ctx context.Context, capacity *models.DailyCapacity) error {
	query := `
		INSERT INTO daily_capacities (capacity_date, garage_door_slots, accessory_panel_slots)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		capacity.Date, capacity.GarageDoorSlots, capacity.AccessoryPanelSlots,
	).Scan(&capacity.ID, &capacity.CreatedAt, &capacity.UpdatedAt)
}

func (r *CapacityRepository) Update(ctx context.Context, capacity *models.DailyCapacity) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE daily_capacities
		SET garage_door_slots = $1, accessory_panel_slots = $2, updated_at = NOW()
		WHERE id = $3
	`, capacity.GarageDoorSlots, capacity.AccessoryPanelSlots, capacity.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: capacity %d", models.ErrNotFound, capacity.ID)
	}
	return nil
}

func (r *CapacityRepository) GetByID(ctx context.Context, id int) (*models.DailyCapacity, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *CapacityRepository) GetByDate(ctx context.Context, date time.Time) (*models.DailyCapacity, error) {
	return r.getOne(ctx, `WHERE capacity_date = $1`, date)
}

func (r *CapacityRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.DailyCapacity, error) {
	capacity := &models.DailyCapacity{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, capacity_date, garage_door_slots, accessory_panel_slots, created_at, updated_at
		FROM daily_capacities `+where, arg,
	).Scan(&capacity.ID, &capacity.Date, &capacity.GarageDoorSlots,
		&capacity.AccessoryPanelSlots, &capacity.CreatedAt, &capacity.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrCapacityUndefined
	}
	if err != nil {
		return nil, err
	}
	return capacity, nil
}

func (r *CapacityRepository) List(ctx context.Context) ([]*models.DailyCapacity, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, capacity_date, garage_door_slots, accessory_panel_slots, created_at, updated_at
		FROM daily_capacities ORDER BY capacity_date
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCapacities(rows)
}

// ListUpcoming returns configured capacity days on or after the given date,
// used to offer alternatives on a reschedule conflict.
func (r *CapacityRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*models.DailyCapacity, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, capacity_date, garage_door_slots, accessory_panel_slots, created_at, updated_at
		FROM daily_capacities
		WHERE capacity_date >= $1
		ORDER BY capacity_date
	`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCapacities(rows)
}

func scanCapacities(rows pgx.Rows) ([]*models.DailyCapacity, error) {
	var capacities []*models.DailyCapacity
	for rows.Next() {
		capacity := &models.DailyCapacity{}
		if err := rows.Scan(&capacity.ID, &capacity.Date, &capacity.GarageDoorSlots,
			&capacity.AccessoryPanelSlots, &capacity.CreatedAt, &capacity.UpdatedAt); err != nil {
			return nil, err
		}
		capacities = append(capacities, capacity)
	}
	return capacities, rows.Err()
}

// ReserveSlotTx decrements one slot of the pool inside the caller's
// transaction. The decrement is conditional on a remaining count above zero;
// check and decrement happen in one statement so two concurrent reservations
// cannot both take the last slot.
func (r *CapacityRepository) ReserveSlotTx(ctx context.Context, tx pgx.Tx, date time.Time, pool string) error {
	col, err := slotColumn(pool)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE daily_capacities
		SET %s = %s - 1, updated_at = NOW()
		WHERE capacity_date = $1 AND %s > 0
	`, col, col, col), date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_capacities WHERE capacity_date = $1)`, date,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", models.ErrCapacityUndefined, date.Format("2006-01-02"))
	}
	return fmt.Errorf("%w: %s/%s", models.ErrCapacityExhausted, date.Format("2006-01-02"), pool)
}

// ForceReserveSlotTx takes a slot without failing when the pool is exhausted.
// The count is clamped at zero; it never goes negative. Used only by the
// explicit reschedule override.
func (r *CapacityRepository) ForceReserveSlotTx(ctx context.Context, tx pgx.Tx, date time.Time, pool string) error {
	col, err := slotColumn(pool)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE daily_capacities
		SET %s = GREATEST(%s - 1, 0), updated_at = NOW()
		WHERE capacity_date = $1
	`, col, col), date)
	return err
}

// ReleaseSlotTx returns one slot to the pool inside the caller's transaction.
// A missing row is a no-op: the day may have been deprovisioned since.
func (r *CapacityRepository) ReleaseSlotTx(ctx context.Context, tx pgx.Tx, date time.Time, pool string) error {
	col, err := slotColumn(pool)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE daily_capacities
		SET %s = %s + 1, updated_at = NOW()
		WHERE capacity_date = $1
	`, col, col), date)
	return err
}
