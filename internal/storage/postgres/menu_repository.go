package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository создаёт PostgreSQL-реализацию MenuRepository.
func NewMenuRepository(store *Store) domain.MenuRepository {
	return &menuRepository{db: store.DB()}
}

func (r *menuRepository) Create(item domain.MenuItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO menu_items (
			id, name, description, price_minor, category, available, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		item.ID, item.Name, item.Description, item.PriceMinor, item.Category,
		item.Available, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert menu item: %w", err)
	}

	return nil
}

func (r *menuRepository) Get(id string) (domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var item domain.MenuItem
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price_minor, category, available, version, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.PriceMinor, &item.Category,
		&item.Available, &item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrNotFound
		}
		return domain.MenuItem{}, fmt.Errorf("select menu item: %w", err)
	}

	return item, nil
}

func (r *menuRepository) List() ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price_minor, category, available, version, created_at, updated_at
		FROM menu_items
		ORDER BY category ASC, LOWER(name) ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.MenuItem, 0)
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.PriceMinor, &item.Category,
			&item.Available, &item.Version, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan menu item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu item rows: %w", err)
	}

	return items, nil
}

func (r *menuRepository) Save(item domain.MenuItem) error {
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
		UPDATE menu_items
		SET name = $1,
		    description = $2,
		    price_minor = $3,
		    category = $4,
		    available = $5,
		    version = version + 1,
		    updated_at = $6
		WHERE id = $7
		  AND version = $8
	`,
		item.Name,
		item.Description,
		item.PriceMinor,
		item.Category,
		item.Available,
		item.UpdatedAt,
		item.ID,
		item.Version,
	)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := rowExistsTx(ctx, tx, "menu_items", item.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save menu item: %w", err)
	}

	return nil
}

func (r *menuRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
