package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Get(ctx context.Context, id int) (*models.Customer, error) {
	customer := &models.Customer{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, phone, location, created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&customer.ID, &customer.Name, &customer.Phone,
		&customer.Location, &customer.CreatedAt, &customer.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, phone, location, created_at, updated_at
		FROM customers ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Phone,
			&customer.Location, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) SearchByPhone(ctx context.Context, phone string) ([]*models.Customer, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, phone, location, created_at, updated_at
		FROM customers WHERE phone LIKE '%' || $1 || '%'
		ORDER BY name
	`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Phone,
			&customer.Location, &customer.CreatedAt, &customer.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}
