package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        ":memory:",
		BusyTimeout: 1000,
	}, zerolog.Nop())
	require.NoError(t, err)

	n, err := db.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	store := NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type seeded struct {
	account    *domain.Account
	role       *domain.UserRole
	user       *domain.User
	difficulty *domain.Difficulty
	category   *domain.Category
}

// seed creates the rows a recipe depends on.
func seed(t *testing.T, s *Store) seeded {
	t.Helper()
	ctx := context.Background()
	var out seeded

	var err error
	out.account, err = domain.NewAccount("Kitchen Co", "", 0)
	require.NoError(t, err)
	_, err = s.Accounts().Add(ctx, out.account)
	require.NoError(t, err)

	out.role, err = domain.NewUserRole(domain.RoleUser)
	require.NoError(t, err)
	_, err = s.UserRoles().Add(ctx, out.role)
	require.NoError(t, err)

	out.user, err = domain.NewUser(domain.UserDetails{
		Name:         "Ana Souza",
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		PasswordSalt: "salt",
		RoleID:       out.role.ID(),
		AccountID:    out.account.ID(),
	})
	require.NoError(t, err)
	_, err = s.Users().Add(ctx, out.user)
	require.NoError(t, err)

	out.difficulty, err = domain.NewDifficulty("Fácil")
	require.NoError(t, err)
	_, err = s.Difficulties().Add(ctx, out.difficulty)
	require.NoError(t, err)

	ct, err := domain.NewCategoryType("Cozinha")
	require.NoError(t, err)
	_, err = s.CategoryTypes().Add(ctx, ct)
	require.NoError(t, err)

	out.category, err = domain.NewCategory("Massas", out.account.ID(), ct.ID(), 0)
	require.NoError(t, err)
	_, err = s.Categories().Add(ctx, out.category)
	require.NoError(t, err)

	return out
}

func newRecipe(t *testing.T, sd seeded) *domain.Recipe {
	t.Helper()
	r, err := domain.NewRecipe(sd.user.ID(), domain.RecipeDetails{
		Title:           "Lasanha de berinjela",
		Instructions:    "Monte as camadas e asse por quarenta minutos.",
		Servings:        "4 porções",
		PrepTimeMinutes: 20,
		CookTimeMinutes: 40,
		CategoryID:      sd.category.ID(),
		DifficultyID:    sd.difficulty.ID(),
	})
	require.NoError(t, err)
	return r
}

func TestStore_AddAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	acc, err := s.Accounts().GetByID(ctx, sd.account.ID())
	require.NoError(t, err)
	require.Equal(t, "Kitchen Co", acc.Name())
	require.Equal(t, domain.DefaultSubscriptionLevel, acc.SubscriptionLevel())
	require.Zero(t, acc.CreatorUserID())
	require.True(t, acc.CreatedAt().Equal(sd.account.CreatedAt()))

	user, err := s.Users().GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.Equal(t, sd.user.ID(), user.ID())

	cat, err := s.Categories().GetByID(ctx, sd.category.ID())
	require.NoError(t, err)
	require.Zero(t, cat.ParentID())

	_, err = s.Recipes().GetByID(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_SoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	recipe := newRecipe(t, sd)
	_, err := s.Recipes().Add(ctx, recipe)
	require.NoError(t, err)

	n, err := s.Recipes().CountByDifficulty(ctx, sd.difficulty.ID())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	require.NoError(t, s.Recipes().Remove(ctx, recipe.ID()))
	require.NoError(t, s.Recipes().Remove(ctx, recipe.ID()))

	got, err := s.Recipes().GetByID(ctx, recipe.ID())
	require.NoError(t, err)
	require.False(t, got.IsActive())

	n, err = s.Recipes().CountByDifficulty(ctx, sd.difficulty.ID())
	require.NoError(t, err)
	require.Zero(t, n)

	list, err := s.Recipes().List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	errBoom := errors.New("boom")
	_, err := repository.WithinTx(ctx, s, func(uow repository.UnitOfWork) error {
		acc, err := domain.NewAccount("Temporária", "", 0)
		require.NoError(t, err)
		if _, err := uow.Accounts().Add(ctx, acc); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	exists, err := s.Accounts().ExistsByName(ctx, "temporária", 0)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStore_WithinTxCommitCountsRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	affected, err := repository.WithinTx(ctx, s, func(uow repository.UnitOfWork) error {
		acc, err := domain.NewAccount("Bistrô", "Premium", 0)
		if err != nil {
			return err
		}
		if _, err := uow.Accounts().Add(ctx, acc); err != nil {
			return err
		}
		_, err = acc.Rename("Bistrô Central")
		if err != nil {
			return err
		}
		return uow.Accounts().Update(ctx, acc)
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), affected)
}

func TestStore_ConstraintClassification(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	dup, err := domain.NewUser(domain.UserDetails{
		Name:         "Outra Ana",
		Username:     "ana",
		Email:        "outra@example.com",
		PasswordHash: "hash",
		PasswordSalt: "salt",
		RoleID:       sd.role.ID(),
		AccountID:    sd.account.ID(),
	})
	require.NoError(t, err)
	_, err = s.Users().Add(ctx, dup)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	orphan, err := domain.NewFavorite(sd.user.ID(), 4242)
	require.NoError(t, err)
	_, err = s.Favorites().Add(ctx, orphan)
	require.ErrorIs(t, err, repository.ErrForeignKey)
}

func TestStore_RatingStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	recipe := newRecipe(t, sd)
	_, err := s.Recipes().Add(ctx, recipe)
	require.NoError(t, err)

	stats, err := s.Ratings().StatsForRecipe(ctx, recipe.ID())
	require.NoError(t, err)
	require.Zero(t, stats.Count)
	require.Zero(t, stats.Average)

	other := addUser(t, s, sd, "bruno")
	for user, v := range map[int64]int{sd.user.ID(): 4, other.ID(): 5} {
		r, err := domain.NewRating(user, recipe.ID(), v)
		require.NoError(t, err)
		_, err = s.Ratings().Add(ctx, r)
		require.NoError(t, err)
	}

	stats, err = s.Ratings().StatsForRecipe(ctx, recipe.ID())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Count)
	require.InDelta(t, 4.5, stats.Average, 0.001)
}

func addUser(t *testing.T, s *Store, sd seeded, username string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.UserDetails{
		Name:         "Usuário " + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		PasswordSalt: "salt",
		RoleID:       sd.role.ID(),
		AccountID:    sd.account.ID(),
	})
	require.NoError(t, err)
	_, err = s.Users().Add(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestStore_OneActiveRatingPerUserAndRecipe(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	recipe := newRecipe(t, sd)
	_, err := s.Recipes().Add(ctx, recipe)
	require.NoError(t, err)

	first, err := domain.NewRating(sd.user.ID(), recipe.ID(), 3)
	require.NoError(t, err)
	_, err = s.Ratings().Add(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewRating(sd.user.ID(), recipe.ID(), 5)
	require.NoError(t, err)
	_, err = s.Ratings().Add(ctx, second)
	require.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, s.Ratings().Remove(ctx, first.ID()))

	again, err := domain.NewRating(sd.user.ID(), recipe.ID(), 5)
	require.NoError(t, err)
	_, err = s.Ratings().Add(ctx, again)
	require.NoError(t, err)

	got, err := s.Ratings().GetByUserAndRecipe(ctx, sd.user.ID(), recipe.ID())
	require.NoError(t, err)
	require.Equal(t, again.ID(), got.ID())
}

func TestStore_NameChecksFoldUnicode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	medium, err := domain.NewDifficulty("Médio")
	require.NoError(t, err)
	_, err = s.Difficulties().Add(ctx, medium)
	require.NoError(t, err)

	tests := []struct {
		name  string
		check func() (bool, error)
		want  bool
	}{
		{"difficulty accented upper case", func() (bool, error) { return s.Difficulties().ExistsByName(ctx, "MÉDIO", 0) }, true},
		{"difficulty excludes itself", func() (bool, error) { return s.Difficulties().ExistsByName(ctx, "MÉDIO", medium.ID()) }, false},
		{"account", func() (bool, error) { return s.Accounts().ExistsByName(ctx, "KITCHEN CO", 0) }, true},
		{"category within account", func() (bool, error) { return s.Categories().ExistsByName(ctx, sd.account.ID(), "MASSAS", 0) }, true},
		{"different name", func() (bool, error) { return s.Difficulties().ExistsByName(ctx, "Medio", 0) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.check()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	user, err := s.Users().GetByEmail(ctx, "ANA@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, sd.user.ID(), user.ID())
}

func TestStore_FavoriteReactivation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sd := seed(t, s)

	recipe := newRecipe(t, sd)
	_, err := s.Recipes().Add(ctx, recipe)
	require.NoError(t, err)

	fav, err := domain.NewFavorite(sd.user.ID(), recipe.ID())
	require.NoError(t, err)
	_, err = s.Favorites().Add(ctx, fav)
	require.NoError(t, err)

	require.True(t, fav.Deactivate())
	require.NoError(t, s.Favorites().Update(ctx, fav))

	list, err := s.Favorites().ListByUser(ctx, sd.user.ID())
	require.NoError(t, err)
	require.Empty(t, list)

	got, err := s.Favorites().GetByUserAndRecipe(ctx, sd.user.ID(), recipe.ID())
	require.NoError(t, err)
	require.False(t, got.IsActive())
	require.True(t, got.Reactivate())
	require.NoError(t, s.Favorites().Update(ctx, got))

	list, err = s.Favorites().ListByUser(ctx, sd.user.ID())
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDB_Status(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	version, err := s.db.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, version)

	status, err := s.db.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	for _, m := range status {
		require.False(t, m.AppliedAt.IsZero(), m.Name)
	}

	n, err := s.db.Migrate(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
