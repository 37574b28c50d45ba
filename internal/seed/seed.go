// Package seed installs the reference data a fresh database needs and
// creates administrator users. Every function is idempotent.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/pkg/password"
	"github.com/prn-tf/recipebook/internal/repository"
)

// Default reference rows.
var (
	Roles           = []string{domain.RoleAdmin, domain.RoleModerator, domain.RoleUser}
	Difficulties    = []string{"Fácil", "Médio", "Difícil"}
	CategoryTypes   = []string{"Cozinha", "Ocasião", "Dieta"}
	IngredientTypes = []string{"Grãos", "Laticínios", "Carnes", "Vegetais", "Temperos", "Frutas"}
)

// ErrAdminExists is returned when the username or email is already taken.
var ErrAdminExists = errors.New("seed: username or email already in use")

// Reference inserts the missing default roles, difficulties, category types
// and ingredient types in one transaction. It returns how many rows were created.
func Reference(ctx context.Context, store repository.Store, logger zerolog.Logger) (int, error) {
	var created int
	_, err := repository.WithinTx(ctx, store, func(uow repository.UnitOfWork) error {
		steps := []func() (int, error){
			func() (int, error) { return ensureNamed(ctx, uow.UserRoles(), Roles, domain.NewUserRole) },
			func() (int, error) { return ensureNamed(ctx, uow.Difficulties(), Difficulties, domain.NewDifficulty) },
			func() (int, error) { return ensureNamed(ctx, uow.CategoryTypes(), CategoryTypes, domain.NewCategoryType) },
			func() (int, error) {
				return ensureNamed(ctx, uow.IngredientTypes(), IngredientTypes, domain.NewIngredientType)
			},
		}
		for _, step := range steps {
			n, err := step()
			if err != nil {
				return err
			}
			created += n
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed reference data: %w", err)
	}

	logger.Info().Int("created", created).Msg("reference data seeded")
	return created, nil
}

func ensureNamed[T repository.Named](
	ctx context.Context,
	repo repository.ReferenceRepository[T],
	names []string,
	build func(string) (T, error),
) (int, error) {
	created := 0
	for _, name := range names {
		exists, err := repo.ExistsByName(ctx, name, 0)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		entity, err := build(name)
		if err != nil {
			return created, err
		}
		if _, err := repo.Add(ctx, entity); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// AdminInput contains the data needed to create an administrator.
type AdminInput struct {
	Name     string
	Username string
	Email    string
	Password string

	// AccountName is joined when it exists and created otherwise.
	AccountName string
}

// Admin creates an approved user holding the Admin role. Reference must have
// run first.
func Admin(ctx context.Context, store repository.Store, hasher *password.Hasher, in AdminInput, logger zerolog.Logger) (*domain.User, error) {
	hashed := hasher.HashPassword(in.Password, "")
	if hashed.IsFailure() {
		return nil, hashed.Err()
	}

	var user *domain.User
	_, err := repository.WithinTx(ctx, store, func(uow repository.UnitOfWork) error {
		role, err := findByName(ctx, uow.UserRoles(), domain.RoleAdmin)
		if err != nil {
			return fmt.Errorf("find admin role: %w", err)
		}

		taken, err := uow.Users().ExistsByUsername(ctx, in.Username, 0)
		if err != nil {
			return err
		}
		if !taken {
			taken, err = uow.Users().ExistsByEmail(ctx, in.Email, 0)
			if err != nil {
				return err
			}
		}
		if taken {
			return ErrAdminExists
		}

		account, isNew, err := accountByName(ctx, uow, in.AccountName)
		if err != nil {
			return err
		}

		user, err = domain.NewUser(domain.UserDetails{
			Name:         in.Name,
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hashed.Value().Hash,
			PasswordSalt: hashed.Value().Salt,
			RoleID:       role.ID(),
			AccountID:    account.ID(),
		})
		if err != nil {
			return err
		}
		if _, err := user.Approve(); err != nil {
			return err
		}
		if _, err := uow.Users().Add(ctx, user); err != nil {
			return err
		}

		if isNew {
			if err := account.AssignCreator(user.ID()); err != nil {
				return err
			}
			if err := uow.Accounts().Update(ctx, account); err != nil {
				return err
			}
		}

		settings, err := domain.DefaultUserSettings(user.ID())
		if err != nil {
			return err
		}
		_, err = uow.UserSettings().Add(ctx, settings)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	logger.Info().
		Int64("user_id", user.ID()).
		Str("username", user.Username()).
		Int64("account_id", user.AccountID()).
		Msg("administrator created")
	return user, nil
}

func findByName[T repository.Named](ctx context.Context, repo repository.ReferenceRepository[T], name string) (T, error) {
	var zero T
	rows, err := repo.List(ctx)
	if err != nil {
		return zero, err
	}
	for _, row := range rows {
		if strings.EqualFold(row.Name(), name) {
			return row, nil
		}
	}
	return zero, repository.ErrNotFound
}

func accountByName(ctx context.Context, uow repository.UnitOfWork, name string) (*domain.Account, bool, error) {
	accounts, err := uow.Accounts().List(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Name(), strings.TrimSpace(name)) {
			return a, false, nil
		}
	}

	account, err := domain.NewAccount(name, "", 0)
	if err != nil {
		return nil, false, err
	}
	if _, err := uow.Accounts().Add(ctx, account); err != nil {
		return nil, false, err
	}
	return account, true, nil
}
