// Package repository defines data access interfaces for recipebook.
// These interfaces abstract database operations, allowing for different implementations
// (SQLite, PostgreSQL, in-memory for testing) while keeping the service layer clean.
//
// Every repository follows the same gateway contract: Add assigns the storage
// identity to the entity, GetByID returns ErrNotFound when absent, and Remove
// only flips the active flag; rows are never physically deleted.
package repository

import (
	"context"

	"github.com/prn-tf/recipebook/internal/domain"
)

// =============================================================================
// Account Repository
// =============================================================================

// AccountRepository defines the interface for account data access.
type AccountRepository interface {
	// Add inserts the account and assigns its ID.
	Add(ctx context.Context, account *domain.Account) (int64, error)

	// GetByID retrieves an account by ID, active or not.
	GetByID(ctx context.Context, id int64) (*domain.Account, error)

	// List returns all active accounts ordered by name.
	List(ctx context.Context) ([]*domain.Account, error)

	// Update persists the current state of the account.
	Update(ctx context.Context, account *domain.Account) error

	// Remove soft-deletes the account.
	Remove(ctx context.Context, id int64) error

	// ExistsByName checks if another active account uses the name.
	// excludeID is ignored when 0.
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
}

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Add(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Remove(ctx context.Context, id int64) error

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by email (case-insensitive).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListByAccount returns the active users of an account.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.User, error)

	// ExistsByUsername checks if another user has the username.
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)

	// ExistsByEmail checks if another user has the email.
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)

	// CountByRole returns the number of active users holding a role.
	CountByRole(ctx context.Context, roleID int64) (int64, error)
}

// =============================================================================
// Reference Repositories
// =============================================================================

// Named is implemented by the reference entities (UserRole, Difficulty,
// CategoryType, IngredientType).
type Named interface {
	domain.Entity
	Name() string
	State() domain.NamedState
}

// ReferenceRepository is the gateway shared by the named lookup tables.
type ReferenceRepository[T Named] interface {
	Add(ctx context.Context, entity T) (int64, error)
	GetByID(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity T) error
	Remove(ctx context.Context, id int64) error

	// ExistsByName checks if another active row has the name (case-insensitive).
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
}

type (
	UserRoleRepository       = ReferenceRepository[*domain.UserRole]
	DifficultyRepository     = ReferenceRepository[*domain.Difficulty]
	CategoryTypeRepository   = ReferenceRepository[*domain.CategoryType]
	IngredientTypeRepository = ReferenceRepository[*domain.IngredientType]
)

// =============================================================================
// Category Repository
// =============================================================================

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	Add(ctx context.Context, category *domain.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Remove(ctx context.Context, id int64) error

	// ListByAccount returns the active categories of an account.
	ListByAccount(ctx context.Context, accountID int64) ([]*domain.Category, error)

	// ListChildren returns the active direct subcategories of a category.
	ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error)

	// ExistsByName checks if another active category of the account has the name.
	ExistsByName(ctx context.Context, accountID int64, name string, excludeID int64) (bool, error)

	// CountByType returns the number of active categories of a CategoryType.
	CountByType(ctx context.Context, typeID int64) (int64, error)
}

// =============================================================================
// Recipe Repository
// =============================================================================

// RecipeRepository defines the interface for recipe data access.
type RecipeRepository interface {
	Add(ctx context.Context, recipe *domain.Recipe) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	List(ctx context.Context) ([]*domain.Recipe, error)
	Update(ctx context.Context, recipe *domain.Recipe) error
	Remove(ctx context.Context, id int64) error

	// ListApproved returns active, approved recipes, newest first.
	ListApproved(ctx context.Context) ([]*domain.Recipe, error)

	// ListByUser returns the active recipes authored by a user.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Recipe, error)

	// ListByCategory returns the active recipes filed under a category.
	ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Recipe, error)

	// CountByCategory returns the number of active recipes in a category.
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)

	// CountByDifficulty returns the number of active recipes with a difficulty.
	CountByDifficulty(ctx context.Context, difficultyID int64) (int64, error)
}

// =============================================================================
// Ingredient Repositories
// =============================================================================

// IngredientRepository defines the interface for ingredient data access.
type IngredientRepository interface {
	Add(ctx context.Context, ingredient *domain.Ingredient) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	List(ctx context.Context) ([]*domain.Ingredient, error)
	Update(ctx context.Context, ingredient *domain.Ingredient) error
	Remove(ctx context.Context, id int64) error

	// ExistsByName checks if another active ingredient has the name.
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)

	// CountByType returns the number of active ingredients of an IngredientType.
	CountByType(ctx context.Context, typeID int64) (int64, error)
}

// IngredientUsageRepository defines the interface for recipe/ingredient links.
type IngredientUsageRepository interface {
	Add(ctx context.Context, usage *domain.IngredientUsage) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.IngredientUsage, error)
	Update(ctx context.Context, usage *domain.IngredientUsage) error
	Remove(ctx context.Context, id int64) error

	// GetByRecipeAndIngredient retrieves the active link between a recipe and an ingredient.
	GetByRecipeAndIngredient(ctx context.Context, recipeID, ingredientID int64) (*domain.IngredientUsage, error)

	// ListByRecipe returns the active ingredient links of a recipe.
	ListByRecipe(ctx context.Context, recipeID int64) ([]*domain.IngredientUsage, error)

	// CountByIngredient returns the number of active links to an ingredient.
	CountByIngredient(ctx context.Context, ingredientID int64) (int64, error)
}

// =============================================================================
// Interaction Repositories
// =============================================================================

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Add(ctx context.Context, comment *domain.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error

	// ListByRecipe returns the comments of a recipe, oldest first.
	// Deleted comments are included so the thread keeps its shape.
	ListByRecipe(ctx context.Context, recipeID int64) ([]*domain.Comment, error)
}

// RatingStats summarizes the active ratings of a recipe.
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	Add(ctx context.Context, rating *domain.Rating) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Rating, error)
	Update(ctx context.Context, rating *domain.Rating) error
	Remove(ctx context.Context, id int64) error

	// GetByUserAndRecipe retrieves the active rating a user gave a recipe.
	GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Rating, error)

	// StatsForRecipe returns the average and count of active ratings.
	StatsForRecipe(ctx context.Context, recipeID int64) (RatingStats, error)
}

// FavoriteRepository defines the interface for favorite data access.
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *domain.Favorite) (int64, error)
	Update(ctx context.Context, favorite *domain.Favorite) error

	// GetByUserAndRecipe retrieves the favorite row, active or not.
	GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Favorite, error)

	// ListByUser returns the active favorites of a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Favorite, error)
}

// UserSettingsRepository defines the interface for user settings data access.
type UserSettingsRepository interface {
	Add(ctx context.Context, settings *domain.UserSettings) (int64, error)
	Update(ctx context.Context, settings *domain.UserSettings) error

	// GetByUser retrieves the settings of a user.
	GetByUser(ctx context.Context, userID int64) (*domain.UserSettings, error)
}

// =============================================================================
// Unit of Work
// =============================================================================

// Repositories exposes one gateway per aggregate.
type Repositories interface {
	Accounts() AccountRepository
	Users() UserRepository
	UserRoles() UserRoleRepository
	Difficulties() DifficultyRepository
	CategoryTypes() CategoryTypeRepository
	IngredientTypes() IngredientTypeRepository
	Categories() CategoryRepository
	Recipes() RecipeRepository
	Ingredients() IngredientRepository
	IngredientUsages() IngredientUsageRepository
	Comments() CommentRepository
	Ratings() RatingRepository
	Favorites() FavoriteRepository
	UserSettings() UserSettingsRepository
}

// UnitOfWork is a set of repositories bound to one transaction.
type UnitOfWork interface {
	Repositories

	// Commit makes every write since Begin durable and returns the number
	// of rows affected.
	Commit(ctx context.Context) (int64, error)

	// Rollback discards every write since Begin. It is a no-op after Commit.
	Rollback(ctx context.Context) error
}

// Store is the persistence dependency of every domain service. Reads issued
// directly on the Store run outside any transaction.
type Store interface {
	Repositories

	// Begin starts a transaction.
	Begin(ctx context.Context) (UnitOfWork, error)

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close() error
}
