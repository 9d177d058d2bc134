package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/abelal/pantrylog/internal/domain"
)

// CatalogStore holds the food item definitions that lots reference.
type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) Create(ctx context.Context, name string, category domain.Category, expirationDays int, costPerUnit float64) (*domain.FoodItem, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO food_items (name, category, default_expiration_days, cost_per_unit)
		VALUES (?, ?, ?, ?)
	`, name, category, expirationDays, costPerUnit)
	if err != nil {
		return nil, storageErr("create food item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storageErr("get last insert id", err)
	}

	return s.GetByID(ctx, id)
}

func (s *CatalogStore) GetByID(ctx context.Context, id int64) (*domain.FoodItem, error) {
	item := &domain.FoodItem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, default_expiration_days, cost_per_unit, created_at, updated_at
		FROM food_items WHERE id = ?
	`, id).Scan(&item.ID, &item.Name, &item.Category, &item.DefaultExpirationDays, &item.CostPerUnit, &item.CreatedAt, &item.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get food item", err)
	}

	return item, nil
}

func (s *CatalogStore) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM food_items WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, storageErr("check food item", err)
	}
	return n > 0, nil
}

func (s *CatalogStore) List(ctx context.Context) ([]*domain.FoodItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, default_expiration_days, cost_per_unit, created_at, updated_at
		FROM food_items ORDER BY name ASC
	`)
	if err != nil {
		return nil, storageErr("list food items", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var items []*domain.FoodItem
	for rows.Next() {
		item := &domain.FoodItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.DefaultExpirationDays, &item.CostPerUnit, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, storageErr("scan food item", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate food items", err)
	}

	return items, nil
}

// Update is the administrative correction path for catalog definitions.
func (s *CatalogStore) Update(ctx context.Context, id int64, name string, category domain.Category, expirationDays int, costPerUnit float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE food_items
		SET name = ?, category = ?, default_expiration_days = ?, cost_per_unit = ?, updated_at = datetime('now')
		WHERE id = ?
	`, name, category, expirationDays, costPerUnit, id)
	if err != nil {
		return storageErr("update food item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr("get rows affected", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a catalog definition. It is refused while any Available
// lot still references the item.
func (s *CatalogStore) Delete(ctx context.Context, id int64) error {
	var inUse int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM lots WHERE food_item_id = ? AND status = ?
	`, id, domain.StatusAvailable).Scan(&inUse)
	if err != nil {
		return storageErr("check lot references", err)
	}
	if inUse > 0 {
		return domain.ErrItemInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM food_items WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete food item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr("get rows affected", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
