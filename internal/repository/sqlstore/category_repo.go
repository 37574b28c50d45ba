package sqlstore

import (
	"context"
	"database/sql"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// categoryRepository implements repository.CategoryRepository.
type categoryRepository struct {
	c *conn
}

const categorySelect = `SELECT name, account_id, type_id, parent_id, ` + recordColumns + ` FROM categories`

func scanCategory(row scanner) (*domain.Category, error) {
	var s domain.CategoryState
	var parent sql.NullInt64
	if err := scanRow(row, &s.Record, &s.Name, &s.AccountID, &s.TypeID, &parent); err != nil {
		return nil, err
	}
	s.ParentID = parent.Int64
	return domain.LoadCategory(s), nil
}

// Add inserts the category and assigns its ID.
func (r *categoryRepository) Add(ctx context.Context, category *domain.Category) (int64, error) {
	s := category.State()
	id, err := r.c.insert(ctx, "create category", `
		INSERT INTO categories (name, account_id, type_id, parent_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.AccountID, s.TypeID, idArg(s.ParentID), s.IsActive,
		r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	category.SetID(id)
	return id, nil
}

// GetByID retrieves a category by ID.
func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return getOne(ctx, r.c, "get category", scanCategory, categorySelect+` WHERE id = ?`, id)
}

// List returns all active categories.
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return list(ctx, r.c, "list categories", scanCategory, categorySelect+` WHERE is_active = ? ORDER BY name`, true)
}

// ListByAccount returns the active categories of an account.
func (r *categoryRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Category, error) {
	return list(ctx, r.c, "list categories by account", scanCategory,
		categorySelect+` WHERE account_id = ? AND is_active = ? ORDER BY name`, accountID, true)
}

// ListChildren returns the active direct subcategories of a category.
func (r *categoryRepository) ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	return list(ctx, r.c, "list subcategories", scanCategory,
		categorySelect+` WHERE parent_id = ? AND is_active = ? ORDER BY name`, parentID, true)
}

// Update persists the category.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	s := category.State()
	return r.c.update(ctx, "update category", `
		UPDATE categories
		SET name = ?, type_id = ?, parent_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.TypeID, idArg(s.ParentID), s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the category.
func (r *categoryRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "categories", id)
}

// ExistsByName checks if another active category of the account has the name.
func (r *categoryRepository) ExistsByName(ctx context.Context, accountID int64, name string, excludeID int64) (bool, error) {
	return r.c.exists(ctx, "check category name",
		`SELECT 1 FROM categories WHERE account_id = ? AND fold(name) = fold(?) AND is_active = ? AND id <> ?`,
		accountID, name, true, excludeID)
}

// CountByType returns the number of active categories of a CategoryType.
func (r *categoryRepository) CountByType(ctx context.Context, typeID int64) (int64, error) {
	return r.c.count(ctx, "count categories by type",
		`SELECT COUNT(*) FROM categories WHERE type_id = ? AND is_active = ?`, typeID, true)
}

var _ repository.CategoryRepository = (*categoryRepository)(nil)
