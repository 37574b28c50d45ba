package sqlstore

import (
	"context"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// ingredientRepository implements repository.IngredientRepository.
type ingredientRepository struct {
	c *conn
}

const ingredientSelect = `SELECT name, type_id, ` + recordColumns + ` FROM ingredients`

func scanIngredient(row scanner) (*domain.Ingredient, error) {
	var s domain.IngredientState
	if err := scanRow(row, &s.Record, &s.Name, &s.TypeID); err != nil {
		return nil, err
	}
	return domain.LoadIngredient(s), nil
}

// Add inserts the ingredient and assigns its ID.
func (r *ingredientRepository) Add(ctx context.Context, ingredient *domain.Ingredient) (int64, error) {
	s := ingredient.State()
	id, err := r.c.insert(ctx, "create ingredient", `
		INSERT INTO ingredients (name, type_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.Name, s.TypeID, s.IsActive, r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	ingredient.SetID(id)
	return id, nil
}

// GetByID retrieves an ingredient by ID.
func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return getOne(ctx, r.c, "get ingredient", scanIngredient, ingredientSelect+` WHERE id = ?`, id)
}

// List returns all active ingredients ordered by name.
func (r *ingredientRepository) List(ctx context.Context) ([]*domain.Ingredient, error) {
	return list(ctx, r.c, "list ingredients", scanIngredient,
		ingredientSelect+` WHERE is_active = ? ORDER BY name`, true)
}

// Update persists the ingredient.
func (r *ingredientRepository) Update(ctx context.Context, ingredient *domain.Ingredient) error {
	s := ingredient.State()
	return r.c.update(ctx, "update ingredient",
		`UPDATE ingredients SET name = ?, type_id = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		s.Name, s.TypeID, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the ingredient.
func (r *ingredientRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "ingredients", id)
}

// ExistsByName checks if another active ingredient has the name.
func (r *ingredientRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.c.exists(ctx, "check ingredient name",
		`SELECT 1 FROM ingredients WHERE fold(name) = fold(?) AND is_active = ? AND id <> ?`,
		name, true, excludeID)
}

// CountByType returns the number of active ingredients of an IngredientType.
func (r *ingredientRepository) CountByType(ctx context.Context, typeID int64) (int64, error) {
	return r.c.count(ctx, "count ingredients by type",
		`SELECT COUNT(*) FROM ingredients WHERE type_id = ? AND is_active = ?`, typeID, true)
}

// usageRepository implements repository.IngredientUsageRepository.
type usageRepository struct {
	c *conn
}

const usageSelect = `SELECT recipe_id, ingredient_id, quantity, unit, ` + recordColumns + ` FROM recipe_ingredients`

func scanUsage(row scanner) (*domain.IngredientUsage, error) {
	var s domain.IngredientUsageState
	if err := scanRow(row, &s.Record, &s.RecipeID, &s.IngredientID, &s.Quantity, &s.Unit); err != nil {
		return nil, err
	}
	return domain.LoadIngredientUsage(s), nil
}

// Add inserts the usage and assigns its ID.
func (r *usageRepository) Add(ctx context.Context, usage *domain.IngredientUsage) (int64, error) {
	s := usage.State()
	id, err := r.c.insert(ctx, "add recipe ingredient", `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, quantity, unit, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.RecipeID, s.IngredientID, s.Quantity, s.Unit, s.IsActive,
		r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	usage.SetID(id)
	return id, nil
}

// GetByID retrieves a usage by ID.
func (r *usageRepository) GetByID(ctx context.Context, id int64) (*domain.IngredientUsage, error) {
	return getOne(ctx, r.c, "get recipe ingredient", scanUsage, usageSelect+` WHERE id = ?`, id)
}

// GetByRecipeAndIngredient retrieves the active link between a recipe and an ingredient.
func (r *usageRepository) GetByRecipeAndIngredient(ctx context.Context, recipeID, ingredientID int64) (*domain.IngredientUsage, error) {
	return getOne(ctx, r.c, "get recipe ingredient", scanUsage,
		usageSelect+` WHERE recipe_id = ? AND ingredient_id = ? AND is_active = ?`, recipeID, ingredientID, true)
}

// ListByRecipe returns the active ingredient links of a recipe.
func (r *usageRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]*domain.IngredientUsage, error) {
	return list(ctx, r.c, "list recipe ingredients", scanUsage,
		usageSelect+` WHERE recipe_id = ? AND is_active = ? ORDER BY id`, recipeID, true)
}

// CountByIngredient returns the number of active links to an ingredient.
func (r *usageRepository) CountByIngredient(ctx context.Context, ingredientID int64) (int64, error) {
	return r.c.count(ctx, "count recipe ingredients",
		`SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = ? AND is_active = ?`, ingredientID, true)
}

// Update persists the usage.
func (r *usageRepository) Update(ctx context.Context, usage *domain.IngredientUsage) error {
	s := usage.State()
	return r.c.update(ctx, "update recipe ingredient",
		`UPDATE recipe_ingredients SET quantity = ?, unit = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		s.Quantity, s.Unit, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the usage.
func (r *usageRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "recipe_ingredients", id)
}

var (
	_ repository.IngredientRepository      = (*ingredientRepository)(nil)
	_ repository.IngredientUsageRepository = (*usageRepository)(nil)
)
