package sqlstore

import (
	"context"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// =============================================================================
// Comments
// =============================================================================

// commentRepository implements repository.CommentRepository.
type commentRepository struct {
	c *conn
}

const commentSelect = `SELECT recipe_id, user_id, text, rating, is_deleted, ` + recordColumns + ` FROM comments`

func scanComment(row scanner) (*domain.Comment, error) {
	var s domain.CommentState
	if err := scanRow(row, &s.Record, &s.RecipeID, &s.UserID, &s.Text, &s.Rating, &s.IsDeleted); err != nil {
		return nil, err
	}
	return domain.LoadComment(s), nil
}

// Add inserts the comment and assigns its ID.
func (r *commentRepository) Add(ctx context.Context, comment *domain.Comment) (int64, error) {
	s := comment.State()
	id, err := r.c.insert(ctx, "create comment", `
		INSERT INTO comments (recipe_id, user_id, text, rating, is_deleted, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RecipeID, s.UserID, s.Text, s.Rating, s.IsDeleted, s.IsActive,
		r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	comment.SetID(id)
	return id, nil
}

// GetByID retrieves a comment by ID.
func (r *commentRepository) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	return getOne(ctx, r.c, "get comment", scanComment, commentSelect+` WHERE id = ?`, id)
}

// ListByRecipe returns the comments of a recipe, oldest first.
func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]*domain.Comment, error) {
	return list(ctx, r.c, "list comments", scanComment,
		commentSelect+` WHERE recipe_id = ? ORDER BY created_at, id`, recipeID)
}

// Update persists the comment.
func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	s := comment.State()
	return r.c.update(ctx, "update comment",
		`UPDATE comments SET text = ?, rating = ?, is_deleted = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		s.Text, s.Rating, s.IsDeleted, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// =============================================================================
// Ratings
// =============================================================================

// ratingRepository implements repository.RatingRepository.
type ratingRepository struct {
	c *conn
}

const ratingSelect = `SELECT user_id, recipe_id, value, ` + recordColumns + ` FROM ratings`

func scanRating(row scanner) (*domain.Rating, error) {
	var s domain.RatingState
	if err := scanRow(row, &s.Record, &s.UserID, &s.RecipeID, &s.Value); err != nil {
		return nil, err
	}
	return domain.LoadRating(s), nil
}

// Add inserts the rating and assigns its ID.
func (r *ratingRepository) Add(ctx context.Context, rating *domain.Rating) (int64, error) {
	s := rating.State()
	id, err := r.c.insert(ctx, "create rating", `
		INSERT INTO ratings (user_id, recipe_id, value, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.UserID, s.RecipeID, s.Value, s.IsActive, r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	rating.SetID(id)
	return id, nil
}

// GetByID retrieves a rating by ID.
func (r *ratingRepository) GetByID(ctx context.Context, id int64) (*domain.Rating, error) {
	return getOne(ctx, r.c, "get rating", scanRating, ratingSelect+` WHERE id = ?`, id)
}

// GetByUserAndRecipe retrieves the active rating a user gave a recipe.
func (r *ratingRepository) GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Rating, error) {
	return getOne(ctx, r.c, "get rating", scanRating,
		ratingSelect+` WHERE user_id = ? AND recipe_id = ? AND is_active = ? ORDER BY id DESC LIMIT 1`,
		userID, recipeID, true)
}

// StatsForRecipe returns the average and count of active ratings.
func (r *ratingRepository) StatsForRecipe(ctx context.Context, recipeID int64) (repository.RatingStats, error) {
	var stats repository.RatingStats
	query := r.c.dialect.rebind(`
		SELECT COALESCE(AVG(CAST(value AS DOUBLE PRECISION)), 0), COUNT(*)
		FROM ratings
		WHERE recipe_id = ? AND is_active = ?`)
	if err := r.c.q.QueryRowContext(ctx, query, recipeID, true).Scan(&stats.Average, &stats.Count); err != nil {
		return stats, classify(err, "compute rating stats")
	}
	return stats, nil
}

// Update persists the rating.
func (r *ratingRepository) Update(ctx context.Context, rating *domain.Rating) error {
	s := rating.State()
	return r.c.update(ctx, "update rating",
		`UPDATE ratings SET value = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		s.Value, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the rating.
func (r *ratingRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "ratings", id)
}

// =============================================================================
// Favorites
// =============================================================================

// favoriteRepository implements repository.FavoriteRepository.
type favoriteRepository struct {
	c *conn
}

const favoriteSelect = `SELECT user_id, recipe_id, ` + recordColumns + ` FROM favorites`

func scanFavorite(row scanner) (*domain.Favorite, error) {
	var s domain.FavoriteState
	if err := scanRow(row, &s.Record, &s.UserID, &s.RecipeID); err != nil {
		return nil, err
	}
	return domain.LoadFavorite(s), nil
}

// Add inserts the favorite and assigns its ID.
func (r *favoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) (int64, error) {
	s := favorite.State()
	id, err := r.c.insert(ctx, "create favorite", `
		INSERT INTO favorites (user_id, recipe_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.UserID, s.RecipeID, s.IsActive, r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	favorite.SetID(id)
	return id, nil
}

// GetByUserAndRecipe retrieves the favorite row, active or not.
func (r *favoriteRepository) GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Favorite, error) {
	return getOne(ctx, r.c, "get favorite", scanFavorite,
		favoriteSelect+` WHERE user_id = ? AND recipe_id = ?`, userID, recipeID)
}

// ListByUser returns the active favorites of a user, newest first.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Favorite, error) {
	return list(ctx, r.c, "list favorites", scanFavorite,
		favoriteSelect+` WHERE user_id = ? AND is_active = ? ORDER BY created_at DESC, id DESC`, userID, true)
}

// Update persists the favorite.
func (r *favoriteRepository) Update(ctx context.Context, favorite *domain.Favorite) error {
	s := favorite.State()
	return r.c.update(ctx, "update favorite",
		`UPDATE favorites SET is_active = ?, updated_at = ? WHERE id = ?`,
		s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// =============================================================================
// User Settings
// =============================================================================

// settingsRepository implements repository.UserSettingsRepository.
type settingsRepository struct {
	c *conn
}

const settingsSelect = `SELECT user_id, theme, language, notifications_enabled, ` + recordColumns + ` FROM user_settings`

func scanSettings(row scanner) (*domain.UserSettings, error) {
	var s domain.UserSettingsState
	if err := scanRow(row, &s.Record, &s.UserID, &s.Theme, &s.Language, &s.NotificationsEnabled); err != nil {
		return nil, err
	}
	return domain.LoadUserSettings(s), nil
}

// Add inserts the settings and assigns their ID.
func (r *settingsRepository) Add(ctx context.Context, settings *domain.UserSettings) (int64, error) {
	s := settings.State()
	id, err := r.c.insert(ctx, "create user settings", `
		INSERT INTO user_settings (user_id, theme, language, notifications_enabled, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.Theme, s.Language, s.NotificationsEnabled, s.IsActive,
		r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	settings.SetID(id)
	return id, nil
}

// GetByUser retrieves the settings of a user.
func (r *settingsRepository) GetByUser(ctx context.Context, userID int64) (*domain.UserSettings, error) {
	return getOne(ctx, r.c, "get user settings", scanSettings, settingsSelect+` WHERE user_id = ?`, userID)
}

// Update persists the settings.
func (r *settingsRepository) Update(ctx context.Context, settings *domain.UserSettings) error {
	s := settings.State()
	return r.c.update(ctx, "update user settings", `
		UPDATE user_settings
		SET theme = ?, language = ?, notifications_enabled = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		s.Theme, s.Language, s.NotificationsEnabled, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

var (
	_ repository.CommentRepository      = (*commentRepository)(nil)
	_ repository.RatingRepository       = (*ratingRepository)(nil)
	_ repository.FavoriteRepository     = (*favoriteRepository)(nil)
	_ repository.UserSettingsRepository = (*settingsRepository)(nil)
)
