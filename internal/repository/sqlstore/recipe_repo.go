package sqlstore

import (
	"context"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// recipeRepository implements repository.RecipeRepository.
type recipeRepository struct {
	c *conn
}

const recipeSelect = `SELECT title, instructions, servings, prep_time_minutes, cook_time_minutes,
	user_id, category_id, difficulty_id, is_approved, ` + recordColumns + ` FROM recipes`

func scanRecipe(row scanner) (*domain.Recipe, error) {
	var s domain.RecipeState
	err := scanRow(row, &s.Record,
		&s.Title, &s.Instructions, &s.Servings, &s.PrepTimeMinutes, &s.CookTimeMinutes,
		&s.UserID, &s.CategoryID, &s.DifficultyID, &s.IsApproved)
	if err != nil {
		return nil, err
	}
	return domain.LoadRecipe(s), nil
}

// Add inserts the recipe and assigns its ID.
func (r *recipeRepository) Add(ctx context.Context, recipe *domain.Recipe) (int64, error) {
	s := recipe.State()
	id, err := r.c.insert(ctx, "create recipe", `
		INSERT INTO recipes (title, instructions, servings, prep_time_minutes, cook_time_minutes,
			user_id, category_id, difficulty_id, is_approved, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Title, s.Instructions, s.Servings, s.PrepTimeMinutes, s.CookTimeMinutes,
		s.UserID, s.CategoryID, s.DifficultyID, s.IsApproved, s.IsActive,
		r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	recipe.SetID(id)
	return id, nil
}

// GetByID retrieves a recipe by ID.
func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	return getOne(ctx, r.c, "get recipe", scanRecipe, recipeSelect+` WHERE id = ?`, id)
}

// List returns all active recipes, newest first.
func (r *recipeRepository) List(ctx context.Context) ([]*domain.Recipe, error) {
	return list(ctx, r.c, "list recipes", scanRecipe,
		recipeSelect+` WHERE is_active = ? ORDER BY created_at DESC, id DESC`, true)
}

// ListApproved returns active, approved recipes, newest first.
func (r *recipeRepository) ListApproved(ctx context.Context) ([]*domain.Recipe, error) {
	return list(ctx, r.c, "list approved recipes", scanRecipe,
		recipeSelect+` WHERE is_active = ? AND is_approved = ? ORDER BY created_at DESC, id DESC`, true, true)
}

// ListByUser returns the active recipes authored by a user.
func (r *recipeRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Recipe, error) {
	return list(ctx, r.c, "list recipes by user", scanRecipe,
		recipeSelect+` WHERE user_id = ? AND is_active = ? ORDER BY created_at DESC, id DESC`, userID, true)
}

// ListByCategory returns the active recipes filed under a category.
func (r *recipeRepository) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Recipe, error) {
	return list(ctx, r.c, "list recipes by category", scanRecipe,
		recipeSelect+` WHERE category_id = ? AND is_active = ? ORDER BY created_at DESC, id DESC`, categoryID, true)
}

// Update persists the recipe.
func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	s := recipe.State()
	return r.c.update(ctx, "update recipe", `
		UPDATE recipes
		SET title = ?, instructions = ?, servings = ?, prep_time_minutes = ?, cook_time_minutes = ?,
			category_id = ?, difficulty_id = ?, is_approved = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		s.Title, s.Instructions, s.Servings, s.PrepTimeMinutes, s.CookTimeMinutes,
		s.CategoryID, s.DifficultyID, s.IsApproved, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the recipe.
func (r *recipeRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "recipes", id)
}

// CountByCategory returns the number of active recipes in a category.
func (r *recipeRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return r.c.count(ctx, "count recipes by category",
		`SELECT COUNT(*) FROM recipes WHERE category_id = ? AND is_active = ?`, categoryID, true)
}

// CountByDifficulty returns the number of active recipes with a difficulty.
func (r *recipeRepository) CountByDifficulty(ctx context.Context, difficultyID int64) (int64, error) {
	return r.c.count(ctx, "count recipes by difficulty",
		`SELECT COUNT(*) FROM recipes WHERE difficulty_id = ? AND is_active = ?`, difficultyID, true)
}

var _ repository.RecipeRepository = (*recipeRepository)(nil)
