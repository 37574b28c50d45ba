package sqlstore

import (
	"context"
	"fmt"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// referenceRepository implements repository.ReferenceRepository for one
// of the named lookup tables.
type referenceRepository[T repository.Named] struct {
	c     *conn
	table string
	noun  string
	load  func(domain.NamedState) T
}

func newReferenceRepository[T repository.Named](c *conn, table, noun string, load func(domain.NamedState) T) *referenceRepository[T] {
	return &referenceRepository[T]{c: c, table: table, noun: noun, load: load}
}

func (r *referenceRepository[T]) scan(row scanner) (T, error) {
	var s domain.NamedState
	if err := scanRow(row, &s.Record, &s.Name); err != nil {
		var zero T
		return zero, err
	}
	return r.load(s), nil
}

func (r *referenceRepository[T]) selectQuery() string {
	return fmt.Sprintf("SELECT name, %s FROM %s", recordColumns, r.table)
}

// Add inserts the entity and assigns its ID.
func (r *referenceRepository[T]) Add(ctx context.Context, entity T) (int64, error) {
	s := entity.State()
	id, err := r.c.insert(ctx, "create "+r.noun,
		fmt.Sprintf("INSERT INTO %s (name, is_active, created_at, updated_at) VALUES (?, ?, ?, ?)", r.table),
		s.Name, s.IsActive, r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	entity.SetID(id)
	return id, nil
}

// GetByID retrieves an entity by ID.
func (r *referenceRepository[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return getOne(ctx, r.c, "get "+r.noun, r.scan, r.selectQuery()+" WHERE id = ?", id)
}

// List returns all active entities ordered by name.
func (r *referenceRepository[T]) List(ctx context.Context) ([]T, error) {
	return list(ctx, r.c, "list "+r.noun, r.scan, r.selectQuery()+" WHERE is_active = ? ORDER BY name", true)
}

// Update persists the entity.
func (r *referenceRepository[T]) Update(ctx context.Context, entity T) error {
	s := entity.State()
	return r.c.update(ctx, "update "+r.noun,
		fmt.Sprintf("UPDATE %s SET name = ?, is_active = ?, updated_at = ? WHERE id = ?", r.table),
		s.Name, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the entity.
func (r *referenceRepository[T]) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, r.table, id)
}

// ExistsByName checks if another active row has the name.
func (r *referenceRepository[T]) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.c.exists(ctx, "check "+r.noun+" name",
		fmt.Sprintf("SELECT 1 FROM %s WHERE fold(name) = fold(?) AND is_active = ? AND id <> ?", r.table),
		name, true, excludeID)
}

var (
	_ repository.UserRoleRepository       = (*referenceRepository[*domain.UserRole])(nil)
	_ repository.DifficultyRepository     = (*referenceRepository[*domain.Difficulty])(nil)
	_ repository.CategoryTypeRepository   = (*referenceRepository[*domain.CategoryType])(nil)
	_ repository.IngredientTypeRepository = (*referenceRepository[*domain.IngredientType])(nil)
)
