package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// repos binds every repository to a single conn.
type repos struct {
	accounts         *accountRepository
	users            *userRepository
	userRoles        *referenceRepository[*domain.UserRole]
	difficulties     *referenceRepository[*domain.Difficulty]
	categoryTypes    *referenceRepository[*domain.CategoryType]
	ingredientTypes  *referenceRepository[*domain.IngredientType]
	categories       *categoryRepository
	recipes          *recipeRepository
	ingredients      *ingredientRepository
	ingredientUsages *usageRepository
	comments         *commentRepository
	ratings          *ratingRepository
	favorites        *favoriteRepository
	userSettings     *settingsRepository
}

func newRepos(c *conn) repos {
	return repos{
		accounts:         &accountRepository{c: c},
		users:            &userRepository{c: c},
		userRoles:        newReferenceRepository(c, "user_roles", "user role", domain.LoadUserRole),
		difficulties:     newReferenceRepository(c, "difficulties", "difficulty", domain.LoadDifficulty),
		categoryTypes:    newReferenceRepository(c, "category_types", "category type", domain.LoadCategoryType),
		ingredientTypes:  newReferenceRepository(c, "ingredient_types", "ingredient type", domain.LoadIngredientType),
		categories:       &categoryRepository{c: c},
		recipes:          &recipeRepository{c: c},
		ingredients:      &ingredientRepository{c: c},
		ingredientUsages: &usageRepository{c: c},
		comments:         &commentRepository{c: c},
		ratings:          &ratingRepository{c: c},
		favorites:        &favoriteRepository{c: c},
		userSettings:     &settingsRepository{c: c},
	}
}

func (r repos) Accounts() repository.AccountRepository {
	return r.accounts
}

func (r repos) Users() repository.UserRepository {
	return r.users
}

func (r repos) UserRoles() repository.UserRoleRepository {
	return r.userRoles
}

func (r repos) Difficulties() repository.DifficultyRepository {
	return r.difficulties
}

func (r repos) CategoryTypes() repository.CategoryTypeRepository {
	return r.categoryTypes
}

func (r repos) IngredientTypes() repository.IngredientTypeRepository {
	return r.ingredientTypes
}

func (r repos) Categories() repository.CategoryRepository {
	return r.categories
}

func (r repos) Recipes() repository.RecipeRepository {
	return r.recipes
}

func (r repos) Ingredients() repository.IngredientRepository {
	return r.ingredients
}

func (r repos) IngredientUsages() repository.IngredientUsageRepository {
	return r.ingredientUsages
}

func (r repos) Comments() repository.CommentRepository {
	return r.comments
}

func (r repos) Ratings() repository.RatingRepository {
	return r.ratings
}

func (r repos) Favorites() repository.FavoriteRepository {
	return r.favorites
}

func (r repos) UserSettings() repository.UserSettingsRepository {
	return r.userSettings
}

// Store implements repository.Store on top of a DB.
type Store struct {
	repos
	db *DB
}

// NewStore creates a Store. Reads issued on the Store run in autocommit mode.
func NewStore(db *DB) *Store {
	return &Store{
		repos: newRepos(&conn{q: db.db, dialect: db.dialect}),
		db:    db,
	}
}

// Begin starts a transaction and returns a unit of work bound to it.
func (s *Store) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	c := &conn{q: tx, dialect: s.db.dialect}
	return &unitOfWork{repos: newRepos(c), tx: tx, conn: c}, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// unitOfWork implements repository.UnitOfWork over a sql.Tx.
type unitOfWork struct {
	repos
	tx   *sql.Tx
	conn *conn
	done bool
}

// Commit commits the transaction and returns the rows written through it.
func (u *unitOfWork) Commit(ctx context.Context) (int64, error) {
	if u.done {
		return 0, repository.ErrTxDone
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return u.conn.affected, nil
}

// Rollback discards the transaction. It is a no-op once the unit of work has finished.
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}

var (
	_ repository.Store      = (*Store)(nil)
	_ repository.UnitOfWork = (*unitOfWork)(nil)
)
