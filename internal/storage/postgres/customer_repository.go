package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{db: store.DB()}
}

func (r *customerRepository) Create(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (
			id, name, email, phone, total_orders, total_spent_minor,
			last_order_at, loyalty_points, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		customer.ID, customer.Name, customer.Email, customer.Phone,
		customer.TotalOrders, customer.TotalSpentMinor,
		nullableTime(customer.LastOrderAt), customer.LoyaltyPoints,
		customer.Version, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *customerRepository) Get(id string) (domain.Customer, error) {
	return r.getBy(`WHERE id = $1`, id)
}

func (r *customerRepository) GetByPhone(phone string) (domain.Customer, error) {
	if phone == "" {
		return domain.Customer{}, domain.ErrNotFound
	}
	return r.getBy(`WHERE phone = $1`, phone)
}

func (r *customerRepository) getBy(where string, arg any) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	customer, err := scanCustomerRow(r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, total_orders, total_spent_minor,
		       last_order_at, loyalty_points, version, created_at, updated_at
		FROM customers
	`+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, domain.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}

	return customer, nil
}

func (r *customerRepository) List() ([]domain.Customer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, total_orders, total_spent_minor,
		       last_order_at, loyalty_points, version, created_at, updated_at
		FROM customers
		ORDER BY LOWER(name) ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}

	return customers, nil
}

func (r *customerRepository) Save(customer domain.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET name = $1,
		    email = $2,
		    phone = $3,
		    total_orders = $4,
		    total_spent_minor = $5,
		    last_order_at = $6,
		    loyalty_points = $7,
		    version = version + 1,
		    updated_at = $8
		WHERE id = $9
		  AND version = $10
	`,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.TotalOrders,
		customer.TotalSpentMinor,
		nullableTime(customer.LastOrderAt),
		customer.LoyaltyPoints,
		customer.UpdatedAt,
		customer.ID,
		customer.Version,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := rowExistsTx(ctx, tx, "customers", customer.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save customer: %w", err)
	}

	return nil
}

func scanCustomerRow(row rowScanner) (domain.Customer, error) {
	var (
		customer    domain.Customer
		lastOrderAt sql.NullTime
	)
	if err := row.Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
		&customer.TotalOrders, &customer.TotalSpentMinor,
		&lastOrderAt, &customer.LoyaltyPoints,
		&customer.Version, &customer.CreatedAt, &customer.UpdatedAt,
	); err != nil {
		return domain.Customer{}, err
	}
	if lastOrderAt.Valid {
		customer.LastOrderAt = lastOrderAt.Time
	}
	return customer, nil
}
