package service

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// memDB holds persisted state as plain state structs, so a transaction can
// work on a copy and commit by swapping it in.
type memDB struct {
	nextID  int64
	written int64

	accounts        map[int64]domain.AccountState
	users           map[int64]domain.UserState
	roles           map[int64]domain.NamedState
	difficulties    map[int64]domain.NamedState
	categoryTypes   map[int64]domain.NamedState
	ingredientTypes map[int64]domain.NamedState
	categories      map[int64]domain.CategoryState
	recipes         map[int64]domain.RecipeState
	ingredients     map[int64]domain.IngredientState
	usages          map[int64]domain.IngredientUsageState
	comments        map[int64]domain.CommentState
	ratings         map[int64]domain.RatingState
	favorites       map[int64]domain.FavoriteState
	settings        map[int64]domain.UserSettingsState
}

func newMemDB() *memDB {
	return &memDB{
		accounts:        map[int64]domain.AccountState{},
		users:           map[int64]domain.UserState{},
		roles:           map[int64]domain.NamedState{},
		difficulties:    map[int64]domain.NamedState{},
		categoryTypes:   map[int64]domain.NamedState{},
		ingredientTypes: map[int64]domain.NamedState{},
		categories:      map[int64]domain.CategoryState{},
		recipes:         map[int64]domain.RecipeState{},
		ingredients:     map[int64]domain.IngredientState{},
		usages:          map[int64]domain.IngredientUsageState{},
		comments:        map[int64]domain.CommentState{},
		ratings:         map[int64]domain.RatingState{},
		favorites:       map[int64]domain.FavoriteState{},
		settings:        map[int64]domain.UserSettingsState{},
	}
}

func (db *memDB) clone() *memDB {
	return &memDB{
		nextID:          db.nextID,
		accounts:        maps.Clone(db.accounts),
		users:           maps.Clone(db.users),
		roles:           maps.Clone(db.roles),
		difficulties:    maps.Clone(db.difficulties),
		categoryTypes:   maps.Clone(db.categoryTypes),
		ingredientTypes: maps.Clone(db.ingredientTypes),
		categories:      maps.Clone(db.categories),
		recipes:         maps.Clone(db.recipes),
		ingredients:     maps.Clone(db.ingredients),
		usages:          maps.Clone(db.usages),
		comments:        maps.Clone(db.comments),
		ratings:         maps.Clone(db.ratings),
		favorites:       maps.Clone(db.favorites),
		settings:        maps.Clone(db.settings),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	db.written++
	return db.nextID
}

// ordered returns the rows of a table by ascending id.
func ordered[S any](table map[int64]S) []S {
	out := make([]S, 0, len(table))
	for _, id := range slices.Sorted(maps.Keys(table)) {
		out = append(out, table[id])
	}
	return out
}

func collect[S, E any](table map[int64]S, keep func(S) bool, load func(S) E) []E {
	var out []E
	for _, s := range ordered(table) {
		if keep(s) {
			out = append(out, load(s))
		}
	}
	return out
}

func newestFirst[E any](in []E) []E {
	slices.Reverse(in)
	return in
}

func count[S any](table map[int64]S, keep func(S) bool) int64 {
	var n int64
	for _, s := range table {
		if keep(s) {
			n++
		}
	}
	return n
}

func get[S, E any](table map[int64]S, id int64, load func(S) E) (E, error) {
	s, ok := table[id]
	if !ok {
		var zero E
		return zero, repository.ErrNotFound
	}
	return load(s), nil
}

func put[S any](db *memDB, table map[int64]S, id int64, s S) error {
	if _, ok := table[id]; !ok {
		return repository.ErrNotFound
	}
	table[id] = s
	db.written++
	return nil
}

// =============================================================================
// Store and Unit of Work
// =============================================================================

// MockStore is an in-memory repository.Store. Transactions see their own
// writes and publish them only on Commit.
type MockStore struct {
	memRepos
	begun     int
	committed int
	rolled    int
}

func NewMockStore() *MockStore {
	return &MockStore{memRepos: memRepos{db: newMemDB()}}
}

func (s *MockStore) Begin(ctx context.Context) (repository.UnitOfWork, error) {
	s.begun++
	return &mockUnitOfWork{memRepos: memRepos{db: s.db.clone()}, store: s}, nil
}

func (s *MockStore) Ping(ctx context.Context) error { return nil }
func (s *MockStore) Close() error { return nil }

type mockUnitOfWork struct {
	memRepos
	store *MockStore
	done  bool
}

func (u *mockUnitOfWork) Commit(ctx context.Context) (int64, error) {
	if u.done {
		return 0, repository.ErrTxDone
	}
	u.done = true
	u.store.committed++
	written := u.db.written
	u.db.written = 0
	*u.store.db = *u.db
	return written, nil
}

func (u *mockUnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.store.rolled++
	return nil
}

type memRepos struct {
	db *memDB
}

func (r memRepos) Accounts() repository.AccountRepository { return memAccounts{r.db} }
func (r memRepos) Users() repository.UserRepository { return memUsers{r.db} }
func (r memRepos) UserRoles() repository.UserRoleRepository {
	return memNamed[*domain.UserRole]{r.db, func(db *memDB) map[int64]domain.NamedState { return db.roles }, domain.LoadUserRole}
}
func (r memRepos) Difficulties() repository.DifficultyRepository {
	return memNamed[*domain.Difficulty]{r.db, func(db *memDB) map[int64]domain.NamedState { return db.difficulties }, domain.LoadDifficulty}
}
func (r memRepos) CategoryTypes() repository.CategoryTypeRepository {
	return memNamed[*domain.CategoryType]{r.db, func(db *memDB) map[int64]domain.NamedState { return db.categoryTypes }, domain.LoadCategoryType}
}
func (r memRepos) IngredientTypes() repository.IngredientTypeRepository {
	return memNamed[*domain.IngredientType]{r.db, func(db *memDB) map[int64]domain.NamedState { return db.ingredientTypes }, domain.LoadIngredientType}
}
func (r memRepos) Categories() repository.CategoryRepository { return memCategories{r.db} }
func (r memRepos) Recipes() repository.RecipeRepository { return memRecipes{r.db} }
func (r memRepos) Ingredients() repository.IngredientRepository { return memIngredients{r.db} }
func (r memRepos) IngredientUsages() repository.IngredientUsageRepository {
	return memUsages{r.db}
}
func (r memRepos) Comments() repository.CommentRepository { return memComments{r.db} }
func (r memRepos) Ratings() repository.RatingRepository { return memRatings{r.db} }
func (r memRepos) Favorites() repository.FavoriteRepository { return memFavorites{r.db} }
func (r memRepos) UserSettings() repository.UserSettingsRepository { return memSettings{r.db} }

var (
	_ repository.Store      = (*MockStore)(nil)
	_ repository.UnitOfWork = (*mockUnitOfWork)(nil)
)

// =============================================================================
// Repositories
// =============================================================================

type memAccounts struct{ db *memDB }

func (r memAccounts) Add(ctx context.Context, a *domain.Account) (int64, error) {
	a.SetID(r.db.id())
	r.db.accounts[a.ID()] = a.State()
	return a.ID(), nil
}

func (r memAccounts) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return get(r.db.accounts, id, domain.LoadAccount)
}

func (r memAccounts) List(ctx context.Context) ([]*domain.Account, error) {
	return collect(r.db.accounts, func(s domain.AccountState) bool { return s.IsActive }, domain.LoadAccount), nil
}

func (r memAccounts) Update(ctx context.Context, a *domain.Account) error {
	return put(r.db, r.db.accounts, a.ID(), a.State())
}

func (r memAccounts) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.accounts, id, s)
}

func (r memAccounts) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return count(r.db.accounts, func(s domain.AccountState) bool {
		return s.IsActive && s.ID != excludeID && strings.EqualFold(s.Name, name)
	}) > 0, nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Add(ctx context.Context, u *domain.User) (int64, error) {
	u.SetID(r.db.id())
	r.db.users[u.ID()] = u.State()
	return u.ID(), nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return get(r.db.users, id, domain.LoadUser)
}

func (r memUsers) List(ctx context.Context) ([]*domain.User, error) {
	return collect(r.db.users, func(s domain.UserState) bool { return s.IsActive }, domain.LoadUser), nil
}

func (r memUsers) Update(ctx context.Context, u *domain.User) error {
	return put(r.db, r.db.users, u.ID(), u.State())
}

func (r memUsers) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.users, id, s)
}

func (r memUsers) find(keep func(domain.UserState) bool) (*domain.User, error) {
	found := collect(r.db.users, keep, domain.LoadUser)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (r memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(s domain.UserState) bool { return s.Username == username })
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(s domain.UserState) bool { return strings.EqualFold(s.Email, email) })
}

func (r memUsers) ListByAccount(ctx context.Context, accountID int64) ([]*domain.User, error) {
	return collect(r.db.users, func(s domain.UserState) bool {
		return s.IsActive && s.AccountID == accountID
	}, domain.LoadUser), nil
}

func (r memUsers) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return count(r.db.users, func(s domain.UserState) bool {
		return s.ID != excludeID && strings.EqualFold(s.Username, username)
	}) > 0, nil
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return count(r.db.users, func(s domain.UserState) bool {
		return s.ID != excludeID && strings.EqualFold(s.Email, email)
	}) > 0, nil
}

func (r memUsers) CountByRole(ctx context.Context, roleID int64) (int64, error) {
	return count(r.db.users, func(s domain.UserState) bool { return s.IsActive && s.RoleID == roleID }), nil
}

type memNamed[T repository.Named] struct {
	db    *memDB
	table func(db *memDB) map[int64]domain.NamedState
	load  func(domain.NamedState) T
}

func (r memNamed[T]) Add(ctx context.Context, e T) (int64, error) {
	e.SetID(r.db.id())
	r.table(r.db)[e.ID()] = e.State()
	return e.ID(), nil
}

func (r memNamed[T]) GetByID(ctx context.Context, id int64) (T, error) {
	return get(r.table(r.db), id, r.load)
}

func (r memNamed[T]) List(ctx context.Context) ([]T, error) {
	out := collect(r.table(r.db), func(s domain.NamedState) bool { return s.IsActive }, r.load)
	slices.SortFunc(out, func(a, b T) int { return strings.Compare(a.Name(), b.Name()) })
	return out, nil
}

func (r memNamed[T]) Update(ctx context.Context, e T) error {
	return put(r.db, r.table(r.db), e.ID(), e.State())
}

func (r memNamed[T]) Remove(ctx context.Context, id int64) error {
	s, ok := r.table(r.db)[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.table(r.db), id, s)
}

func (r memNamed[T]) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return count(r.table(r.db), func(s domain.NamedState) bool {
		return s.IsActive && s.ID != excludeID && strings.EqualFold(s.Name, name)
	}) > 0, nil
}

type memCategories struct{ db *memDB }

func (r memCategories) Add(ctx context.Context, c *domain.Category) (int64, error) {
	c.SetID(r.db.id())
	r.db.categories[c.ID()] = c.State()
	return c.ID(), nil
}

func (r memCategories) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	return get(r.db.categories, id, domain.LoadCategory)
}

func (r memCategories) List(ctx context.Context) ([]*domain.Category, error) {
	return collect(r.db.categories, func(s domain.CategoryState) bool { return s.IsActive }, domain.LoadCategory), nil
}

func (r memCategories) Update(ctx context.Context, c *domain.Category) error {
	return put(r.db, r.db.categories, c.ID(), c.State())
}

func (r memCategories) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.categories[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.categories, id, s)
}

func (r memCategories) ListByAccount(ctx context.Context, accountID int64) ([]*domain.Category, error) {
	return collect(r.db.categories, func(s domain.CategoryState) bool {
		return s.IsActive && s.AccountID == accountID
	}, domain.LoadCategory), nil
}

func (r memCategories) ListChildren(ctx context.Context, parentID int64) ([]*domain.Category, error) {
	return collect(r.db.categories, func(s domain.CategoryState) bool {
		return s.IsActive && s.ParentID == parentID
	}, domain.LoadCategory), nil
}

func (r memCategories) ExistsByName(ctx context.Context, accountID int64, name string, excludeID int64) (bool, error) {
	return count(r.db.categories, func(s domain.CategoryState) bool {
		return s.IsActive && s.AccountID == accountID && s.ID != excludeID && strings.EqualFold(s.Name, name)
	}) > 0, nil
}

func (r memCategories) CountByType(ctx context.Context, typeID int64) (int64, error) {
	return count(r.db.categories, func(s domain.CategoryState) bool { return s.IsActive && s.TypeID == typeID }), nil
}

type memRecipes struct{ db *memDB }

func (r memRecipes) Add(ctx context.Context, rec *domain.Recipe) (int64, error) {
	rec.SetID(r.db.id())
	r.db.recipes[rec.ID()] = rec.State()
	return rec.ID(), nil
}

func (r memRecipes) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	return get(r.db.recipes, id, domain.LoadRecipe)
}

func (r memRecipes) List(ctx context.Context) ([]*domain.Recipe, error) {
	return newestFirst(collect(r.db.recipes, func(s domain.RecipeState) bool { return s.IsActive }, domain.LoadRecipe)), nil
}

func (r memRecipes) Update(ctx context.Context, rec *domain.Recipe) error {
	return put(r.db, r.db.recipes, rec.ID(), rec.State())
}

func (r memRecipes) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.recipes[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.recipes, id, s)
}

func (r memRecipes) ListApproved(ctx context.Context) ([]*domain.Recipe, error) {
	return newestFirst(collect(r.db.recipes, func(s domain.RecipeState) bool {
		return s.IsActive && s.IsApproved
	}, domain.LoadRecipe)), nil
}

func (r memRecipes) ListByUser(ctx context.Context, userID int64) ([]*domain.Recipe, error) {
	return newestFirst(collect(r.db.recipes, func(s domain.RecipeState) bool {
		return s.IsActive && s.UserID == userID
	}, domain.LoadRecipe)), nil
}

func (r memRecipes) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Recipe, error) {
	return newestFirst(collect(r.db.recipes, func(s domain.RecipeState) bool {
		return s.IsActive && s.CategoryID == categoryID
	}, domain.LoadRecipe)), nil
}

func (r memRecipes) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	return count(r.db.recipes, func(s domain.RecipeState) bool { return s.IsActive && s.CategoryID == categoryID }), nil
}

func (r memRecipes) CountByDifficulty(ctx context.Context, difficultyID int64) (int64, error) {
	return count(r.db.recipes, func(s domain.RecipeState) bool { return s.IsActive && s.DifficultyID == difficultyID }), nil
}

type memIngredients struct{ db *memDB }

func (r memIngredients) Add(ctx context.Context, i *domain.Ingredient) (int64, error) {
	i.SetID(r.db.id())
	r.db.ingredients[i.ID()] = i.State()
	return i.ID(), nil
}

func (r memIngredients) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return get(r.db.ingredients, id, domain.LoadIngredient)
}

func (r memIngredients) List(ctx context.Context) ([]*domain.Ingredient, error) {
	return collect(r.db.ingredients, func(s domain.IngredientState) bool { return s.IsActive }, domain.LoadIngredient), nil
}

func (r memIngredients) Update(ctx context.Context, i *domain.Ingredient) error {
	return put(r.db, r.db.ingredients, i.ID(), i.State())
}

func (r memIngredients) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.ingredients[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.ingredients, id, s)
}

func (r memIngredients) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return count(r.db.ingredients, func(s domain.IngredientState) bool {
		return s.IsActive && s.ID != excludeID && strings.EqualFold(s.Name, name)
	}) > 0, nil
}

func (r memIngredients) CountByType(ctx context.Context, typeID int64) (int64, error) {
	return count(r.db.ingredients, func(s domain.IngredientState) bool { return s.IsActive && s.TypeID == typeID }), nil
}

type memUsages struct{ db *memDB }

func (r memUsages) Add(ctx context.Context, u *domain.IngredientUsage) (int64, error) {
	u.SetID(r.db.id())
	r.db.usages[u.ID()] = u.State()
	return u.ID(), nil
}

func (r memUsages) GetByID(ctx context.Context, id int64) (*domain.IngredientUsage, error) {
	return get(r.db.usages, id, domain.LoadIngredientUsage)
}

func (r memUsages) Update(ctx context.Context, u *domain.IngredientUsage) error {
	return put(r.db, r.db.usages, u.ID(), u.State())
}

func (r memUsages) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.usages[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.usages, id, s)
}

func (r memUsages) GetByRecipeAndIngredient(ctx context.Context, recipeID, ingredientID int64) (*domain.IngredientUsage, error) {
	found := collect(r.db.usages, func(s domain.IngredientUsageState) bool {
		return s.IsActive && s.RecipeID == recipeID && s.IngredientID == ingredientID
	}, domain.LoadIngredientUsage)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (r memUsages) ListByRecipe(ctx context.Context, recipeID int64) ([]*domain.IngredientUsage, error) {
	return collect(r.db.usages, func(s domain.IngredientUsageState) bool {
		return s.IsActive && s.RecipeID == recipeID
	}, domain.LoadIngredientUsage), nil
}

func (r memUsages) CountByIngredient(ctx context.Context, ingredientID int64) (int64, error) {
	return count(r.db.usages, func(s domain.IngredientUsageState) bool {
		return s.IsActive && s.IngredientID == ingredientID
	}), nil
}

type memComments struct{ db *memDB }

func (r memComments) Add(ctx context.Context, c *domain.Comment) (int64, error) {
	c.SetID(r.db.id())
	r.db.comments[c.ID()] = c.State()
	return c.ID(), nil
}

func (r memComments) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	return get(r.db.comments, id, domain.LoadComment)
}

func (r memComments) Update(ctx context.Context, c *domain.Comment) error {
	return put(r.db, r.db.comments, c.ID(), c.State())
}

func (r memComments) ListByRecipe(ctx context.Context, recipeID int64) ([]*domain.Comment, error) {
	return collect(r.db.comments, func(s domain.CommentState) bool { return s.RecipeID == recipeID }, domain.LoadComment), nil
}

type memRatings struct{ db *memDB }

func (r memRatings) Add(ctx context.Context, rt *domain.Rating) (int64, error) {
	rt.SetID(r.db.id())
	r.db.ratings[rt.ID()] = rt.State()
	return rt.ID(), nil
}

func (r memRatings) GetByID(ctx context.Context, id int64) (*domain.Rating, error) {
	return get(r.db.ratings, id, domain.LoadRating)
}

func (r memRatings) Update(ctx context.Context, rt *domain.Rating) error {
	return put(r.db, r.db.ratings, rt.ID(), rt.State())
}

func (r memRatings) Remove(ctx context.Context, id int64) error {
	s, ok := r.db.ratings[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.IsActive = false
	return put(r.db, r.db.ratings, id, s)
}

func (r memRatings) GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Rating, error) {
	found := newestFirst(collect(r.db.ratings, func(s domain.RatingState) bool {
		return s.IsActive && s.UserID == userID && s.RecipeID == recipeID
	}, domain.LoadRating))
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (r memRatings) StatsForRecipe(ctx context.Context, recipeID int64) (repository.RatingStats, error) {
	var stats repository.RatingStats
	var sum int
	for _, s := range r.db.ratings {
		if s.IsActive && s.RecipeID == recipeID {
			sum += s.Value
			stats.Count++
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

type memFavorites struct{ db *memDB }

func (r memFavorites) Add(ctx context.Context, f *domain.Favorite) (int64, error) {
	f.SetID(r.db.id())
	r.db.favorites[f.ID()] = f.State()
	return f.ID(), nil
}

func (r memFavorites) Update(ctx context.Context, f *domain.Favorite) error {
	return put(r.db, r.db.favorites, f.ID(), f.State())
}

func (r memFavorites) GetByUserAndRecipe(ctx context.Context, userID, recipeID int64) (*domain.Favorite, error) {
	found := collect(r.db.favorites, func(s domain.FavoriteState) bool {
		return s.UserID == userID && s.RecipeID == recipeID
	}, domain.LoadFavorite)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}

func (r memFavorites) ListByUser(ctx context.Context, userID int64) ([]*domain.Favorite, error) {
	return newestFirst(collect(r.db.favorites, func(s domain.FavoriteState) bool {
		return s.IsActive && s.UserID == userID
	}, domain.LoadFavorite)), nil
}

type memSettings struct{ db *memDB }

func (r memSettings) Add(ctx context.Context, s *domain.UserSettings) (int64, error) {
	s.SetID(r.db.id())
	r.db.settings[s.ID()] = s.State()
	return s.ID(), nil
}

func (r memSettings) Update(ctx context.Context, s *domain.UserSettings) error {
	return put(r.db, r.db.settings, s.ID(), s.State())
}

func (r memSettings) GetByUser(ctx context.Context, userID int64) (*domain.UserSettings, error) {
	found := collect(r.db.settings, func(s domain.UserSettingsState) bool { return s.UserID == userID }, domain.LoadUserSettings)
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return found[0], nil
}
