package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository создаёт PostgreSQL-реализацию ReservationRepository.
func NewReservationRepository(store *Store) domain.ReservationRepository {
	return &reservationRepository{db: store.DB()}
}

func (r *reservationRepository) Create(res domain.Reservation) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reservations (
			id, customer_name, customer_phone, customer_email, reserved_on, time_slot,
			party_size, table_number, status, special_requests, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		res.ID, res.CustomerName, res.CustomerPhone, res.CustomerEmail, res.Date, res.TimeSlot,
		res.PartySize, res.TableNumber, string(res.Status), res.SpecialRequests, res.Version, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) Get(id string) (domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := scanReservationRow(r.db.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_phone, customer_email, reserved_on, time_slot,
		       party_size, table_number, status, special_requests, version, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, fmt.Errorf("select reservation: %w", err)
	}

	return res, nil
}

func (r *reservationRepository) List() ([]domain.Reservation, error) {
	return r.list(`
		SELECT id, customer_name, customer_phone, customer_email, reserved_on, time_slot,
		       party_size, table_number, status, special_requests, version, created_at, updated_at
		FROM reservations
		ORDER BY reserved_on ASC, time_slot ASC, id ASC
	`)
}

func (r *reservationRepository) ListByDate(date time.Time) ([]domain.Reservation, error) {
	return r.list(`
		SELECT id, customer_name, customer_phone, customer_email, reserved_on, time_slot,
		       party_size, table_number, status, special_requests, version, created_at, updated_at
		FROM reservations
		WHERE reserved_on = $1::date
		ORDER BY time_slot ASC, id ASC
	`, date)
}

func (r *reservationRepository) list(query string, args ...any) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, nil
}

func (r *reservationRepository) Save(res domain.Reservation) error {
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
		UPDATE reservations
		SET customer_name = $1,
		    customer_phone = $2,
		    customer_email = $3,
		    reserved_on = $4,
		    time_slot = $5,
		    party_size = $6,
		    table_number = $7,
		    status = $8,
		    special_requests = $9,
		    version = version + 1,
		    updated_at = $10
		WHERE id = $11
		  AND version = $12
	`,
		res.CustomerName,
		res.CustomerPhone,
		res.CustomerEmail,
		res.Date,
		res.TimeSlot,
		res.PartySize,
		res.TableNumber,
		string(res.Status),
		res.SpecialRequests,
		res.UpdatedAt,
		res.ID,
		res.Version,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := rowExistsTx(ctx, tx, "reservations", res.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save reservation: %w", err)
	}

	return nil
}

func scanReservationRow(row rowScanner) (domain.Reservation, error) {
	var (
		res    domain.Reservation
		status string
	)
	if err := row.Scan(
		&res.ID, &res.CustomerName, &res.CustomerPhone, &res.CustomerEmail, &res.Date, &res.TimeSlot,
		&res.PartySize, &res.TableNumber, &status, &res.SpecialRequests, &res.Version, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return domain.Reservation{}, err
	}
	res.Status = domain.ReservationStatus(status)
	return res, nil
}
