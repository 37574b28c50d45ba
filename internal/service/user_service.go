package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// UsersService handles registration and user management.
type UsersService struct {
	store  repository.Store
	auth   Authenticator
	hasher PasswordHasher
	logger zerolog.Logger
}

// NewUsersService creates a new UsersService.
func NewUsersService(
	store repository.Store,
	authn Authenticator,
	hasher PasswordHasher,
	logger zerolog.Logger,
) *UsersService {
	return &UsersService{
		store:  store,
		auth:   authn,
		hasher: hasher,
		logger: logger.With().Str("service", "users").Logger(),
	}
}

// =============================================================================
// Input Structs
// =============================================================================

// RegisterInput contains the data needed to register a user.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string

	// AccountID adds the user to an existing account on behalf of an
	// administrator or the account's creator. When 0 a new account named
	// AccountName is created with the user as its creator.
	AccountID   int64
	AccountName string
}

// ProfileInput contains the profile fields to change. Empty fields are kept.
type ProfileInput struct {
	Name     string
	Username string
	Email    string
}

// ChangePasswordInput contains the data needed to change the actor's password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// =============================================================================
// Operations
// =============================================================================

// Register creates a user with the default role and settings. Creating a new
// account needs no actor; joining an existing one needs its creator or an
// administrator.
func (s *UsersService) Register(ctx context.Context, input RegisterInput) result.Result[*domain.User] {
	var inviter actor
	if input.AccountID > 0 {
		a, appErr := resolveActor(ctx, s.auth, s.store)
		if appErr != nil {
			return result.Failure[*domain.User](appErr)
		}
		inviter = a
	}

	hashed := s.hasher.HashPassword(input.Password, "")
	if hashed.IsFailure() {
		return result.Forward[*domain.User](hashed)
	}

	var user *domain.User
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		role, err := findRole(ctx, uow.UserRoles(), domain.RoleUser)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.BusinessRuleViolation(apperr.CodeBizRule, "Perfil padrão de usuário não configurado.")
		}
		if err != nil {
			return err
		}

		if err := s.checkUnique(ctx, uow, input.Username, input.Email, 0); err != nil {
			return err
		}

		var created *domain.Account
		accountID := input.AccountID
		if accountID > 0 {
			account, err := activeOr(uow.Accounts().GetByID(ctx, accountID))
			if err != nil {
				return notFoundAs(err, "Conta")
			}
			if !inviter.IsAdmin() && account.CreatorUserID() != inviter.ID() {
				return errForbidden()
			}
		} else {
			created, err = domain.NewAccount(input.AccountName, "", 0)
			if err != nil {
				return err
			}
			exists, err := uow.Accounts().ExistsByName(ctx, created.Name(), 0)
			if err != nil {
				return err
			}
			if exists {
				return errExists("accountName", "Já existe uma conta com este nome.")
			}
			if accountID, err = uow.Accounts().Add(ctx, created); err != nil {
				return err
			}
		}

		user, err = domain.NewUser(domain.UserDetails{
			Name:         input.Name,
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hashed.Value().Hash,
			PasswordSalt: hashed.Value().Salt,
			RoleID:       role.ID(),
			AccountID:    accountID,
		})
		if err != nil {
			return err
		}
		if _, err := uow.Users().Add(ctx, user); err != nil {
			return err
		}

		if created != nil {
			if err := created.AssignCreator(user.ID()); err != nil {
				return err
			}
			if err := uow.Accounts().Update(ctx, created); err != nil {
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
		return fail[*domain.User](s.logger, "register user", err)
	}

	s.logger.Info().
		Int64("user_id", user.ID()).
		Str("username", user.Username()).
		Int64("account_id", user.AccountID()).
		Msg("user registered")

	return result.Success(user, "Usuário cadastrado com sucesso.")
}

// checkUnique reports a Conflict when username or email belongs to another user.
func (s *UsersService) checkUnique(ctx context.Context, uow repository.UnitOfWork, username, email string, excludeID int64) error {
	if username != "" {
		exists, err := uow.Users().ExistsByUsername(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return errExists("username", "Nome de usuário já está em uso.")
		}
	}
	if email != "" {
		exists, err := uow.Users().ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return errExists("email", "E-mail já está em uso.")
		}
	}
	return nil
}

// Get returns a user visible to the actor: themselves, a member of the same
// account, or anyone for administrators.
func (s *UsersService) Get(ctx context.Context, id int64) result.Result[*domain.User] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.User](appErr)
	}

	user, err := activeOr(s.store.Users().GetByID(ctx, id))
	if err != nil {
		return fail[*domain.User](s.logger, "get user", notFoundAs(err, "Usuário"))
	}
	if user.AccountID() != a.AccountID() && !a.IsAdmin() {
		return result.Failure[*domain.User](errForbidden())
	}
	return result.Success(user)
}

// Current returns the authenticated user.
func (s *UsersService) Current(ctx context.Context) result.Result[*domain.User] {
	return s.auth.PersistedUser(ctx)
}

// ListByAccount returns the active users of an account.
func (s *UsersService) ListByAccount(ctx context.Context, accountID int64) result.Result[[]*domain.User] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[[]*domain.User](appErr)
	}
	if a.AccountID() != accountID && !a.IsAdmin() {
		return result.Failure[[]*domain.User](errForbidden())
	}

	users, err := s.store.Users().ListByAccount(ctx, accountID)
	if err != nil {
		return fail[[]*domain.User](s.logger, "list users", err)
	}
	return result.Success(users)
}

// UpdateProfile changes name, username or email of a user. Allowed to the
// user and administrators.
func (s *UsersService) UpdateProfile(ctx context.Context, id int64, input ProfileInput) result.Result[*domain.User] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.User](appErr)
	}
	if a.ID() != id && !a.IsAdmin() {
		return result.Failure[*domain.User](errForbidden())
	}

	var user *domain.User
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		user, err = activeOr(uow.Users().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Usuário")
		}
		if err := s.checkUnique(ctx, uow, input.Username, input.Email, id); err != nil {
			return err
		}

		changed := false
		if input.Name != "" {
			c, err := user.ChangeName(input.Name)
			if err != nil {
				return err
			}
			changed = changed || c
		}
		if input.Username != "" {
			c, err := user.ChangeUsername(input.Username)
			if err != nil {
				return err
			}
			changed = changed || c
		}
		if input.Email != "" {
			c, err := user.ChangeEmail(input.Email)
			if err != nil {
				return err
			}
			changed = changed || c
		}
		if !changed {
			return nil
		}
		return uow.Users().Update(ctx, user)
	})
	if err != nil {
		return fail[*domain.User](s.logger, "update profile", err)
	}

	s.logger.Info().Int64("user_id", id).Int64("actor_id", a.ID()).Msg("profile updated")
	return result.Success(user, "Perfil atualizado com sucesso.")
}

// ChangePassword replaces the actor's password after checking the current one.
func (s *UsersService) ChangePassword(ctx context.Context, input ChangePasswordInput) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}
	if !s.hasher.VerifyPassword(a.user.PasswordHash(), input.CurrentPassword, a.user.PasswordSalt()) {
		return result.Fail(apperr.ValidationField("currentPassword", "Senha atual incorreta."))
	}

	hashed := s.hasher.HashPassword(input.NewPassword, "")
	if hashed.IsFailure() {
		return result.Forward[result.Unit](hashed)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		user, err := activeOr(uow.Users().GetByID(ctx, a.ID()))
		if err != nil {
			return notFoundAs(err, "Usuário")
		}
		if err := user.ChangePassword(hashed.Value().Hash, hashed.Value().Salt); err != nil {
			return err
		}
		return uow.Users().Update(ctx, user)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "change password", err)
	}

	s.logger.Info().Int64("user_id", a.ID()).Msg("password changed")
	return result.Ok("Senha alterada com sucesso.")
}

// Approve marks a user as approved. Administrators only.
func (s *UsersService) Approve(ctx context.Context, id int64) result.Result[*domain.User] {
	a, appErr := requireAdmin(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.User](appErr)
	}

	var user *domain.User
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		user, err = activeOr(uow.Users().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Usuário")
		}
		changed, err := user.Approve()
		if err != nil || !changed {
			return err
		}
		return uow.Users().Update(ctx, user)
	})
	if err != nil {
		return fail[*domain.User](s.logger, "approve user", err)
	}

	s.logger.Info().Int64("user_id", id).Int64("actor_id", a.ID()).Msg("user approved")
	return result.Success(user, "Usuário aprovado com sucesso.")
}

// ChangeRole assigns another active role. Administrators only.
func (s *UsersService) ChangeRole(ctx context.Context, id, roleID int64) result.Result[*domain.User] {
	a, appErr := requireAdmin(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.User](appErr)
	}

	var user *domain.User
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if _, err := activeOr(uow.UserRoles().GetByID(ctx, roleID)); err != nil {
			return notFoundAs(err, "Perfil")
		}

		var err error
		user, err = activeOr(uow.Users().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Usuário")
		}
		changed, err := user.ChangeRole(roleID)
		if err != nil || !changed {
			return err
		}
		return uow.Users().Update(ctx, user)
	})
	if err != nil {
		return fail[*domain.User](s.logger, "change role", err)
	}

	s.logger.Info().
		Int64("user_id", id).
		Int64("role_id", roleID).
		Int64("actor_id", a.ID()).
		Msg("user role changed")

	return result.Success(user, "Perfil do usuário alterado com sucesso.")
}

// Deactivate soft-deletes a user. Allowed to the user and administrators; a
// missing or already inactive user is a success.
func (s *UsersService) Deactivate(ctx context.Context, id int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}
	if a.ID() != id && !a.IsAdmin() {
		return result.Fail(errForbidden())
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		user, err := activeOr(uow.Users().GetByID(ctx, id))
		if err != nil {
			return ignoreNotFound(err)
		}
		user.Deactivate()
		return uow.Users().Remove(ctx, user.ID())
	})
	if err != nil {
		return fail[result.Unit](s.logger, "deactivate user", err)
	}

	s.logger.Info().Int64("user_id", id).Int64("actor_id", a.ID()).Msg("user deactivated")
	return result.Ok("Usuário desativado com sucesso.")
}
