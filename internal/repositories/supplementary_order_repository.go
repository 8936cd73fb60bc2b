package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SupplementaryOrderRepository struct {
	DB *pgxpool.Pool
}

func NewSupplementaryOrderRepository(db *pgxpool.Pool) *SupplementaryOrderRepository {
	return &SupplementaryOrderRepository{DB: db}
}

func (r *SupplementaryOrderRepository) Create(ctx context.Context, supplement *models.SupplementaryOrder) error {
	query := `
		INSERT INTO supplementary_orders (order_id, description, location, price, amount_paid,
		                                  method, paid_in_full, debt_class)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(ctx, query,
		supplement.OrderID, supplement.Description, supplement.Location,
		supplement.Price, supplement.AmountPaid, supplement.Method,
		supplement.PaidInFull, supplement.DebtClass,
	).Scan(&supplement.ID, &supplement.CreatedAt, &supplement.UpdatedAt)
}

func (r *SupplementaryOrderRepository) Get(ctx context.Context, id int) (*models.SupplementaryOrder, error) {
	s := &models.SupplementaryOrder{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_id, description, location, price, amount_paid,
		       method, paid_in_full, debt_class, created_at, updated_at
		FROM supplementary_orders WHERE id = $1
	`, id).Scan(&s.ID, &s.OrderID, &s.Description, &s.Location, &s.Price,
		&s.AmountPaid, &s.Method, &s.PaidInFull, &s.DebtClass, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: supplementary order %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SupplementaryOrderRepository) ListByOrder(ctx context.Context, orderID int) ([]*models.SupplementaryOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, description, location, price, amount_paid,
		       method, paid_in_full, debt_class, created_at, updated_at
		FROM supplementary_orders WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var supplements []*models.SupplementaryOrder
	for rows.Next() {
		s := &models.SupplementaryOrder{}
		if err := rows.Scan(&s.ID, &s.OrderID, &s.Description, &s.Location, &s.Price,
			&s.AmountPaid, &s.Method, &s.PaidInFull, &s.DebtClass, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		supplements = append(supplements, s)
	}
	return supplements, rows.Err()
}

func (r *SupplementaryOrderRepository) Update(ctx context.Context, supplement *models.SupplementaryOrder) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE supplementary_orders
		SET description = $1, price = $2, amount_paid = $3, method = $4,
		    paid_in_full = $5, debt_class = $6, updated_at = NOW()
		WHERE id = $7
	`, supplement.Description, supplement.Price, supplement.AmountPaid,
		supplement.Method, supplement.PaidInFull, supplement.DebtClass, supplement.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplementary order %d", models.ErrNotFound, supplement.ID)
	}
	return nil
}

func (r *SupplementaryOrderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM supplementary_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplementary order %d", models.ErrNotFound, id)
	}
	return nil
}
