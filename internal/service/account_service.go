package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// AccountService manages tenant accounts.
type AccountService struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(store repository.Store, authn Authenticator, logger zerolog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "account").Logger(),
	}
}

// CreateAccountInput contains the data needed to create an account.
type CreateAccountInput struct {
	Name string

	// SubscriptionLevel defaults to "Free" when empty.
	SubscriptionLevel string
}

// Create creates an account. Administrators only.
func (s *AccountService) Create(ctx context.Context, input CreateAccountInput) result.Result[*domain.Account] {
	a, appErr := requireAdmin(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Account](appErr)
	}

	account, err := domain.NewAccount(input.Name, input.SubscriptionLevel, a.ID())
	if err != nil {
		return fail[*domain.Account](s.logger, "create account", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		exists, err := uow.Accounts().ExistsByName(ctx, account.Name(), 0)
		if err != nil {
			return err
		}
		if exists {
			return errExists("name", "Já existe uma conta com este nome.")
		}
		_, err = uow.Accounts().Add(ctx, account)
		return err
	})
	if err != nil {
		return fail[*domain.Account](s.logger, "create account", err)
	}

	s.logger.Info().
		Int64("account_id", account.ID()).
		Str("name", account.Name()).
		Str("subscription", account.SubscriptionLevel()).
		Msg("account created")

	return result.Success(account, "Conta criada com sucesso.")
}

// Get returns an active account visible to the actor.
func (s *AccountService) Get(ctx context.Context, id int64) result.Result[*domain.Account] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Account](appErr)
	}
	if a.AccountID() != id && !a.IsAdmin() {
		return result.Failure[*domain.Account](errForbidden())
	}

	account, err := activeOr(s.store.Accounts().GetByID(ctx, id))
	if err != nil {
		return fail[*domain.Account](s.logger, "get account", notFoundAs(err, "Conta"))
	}
	return result.Success(account)
}

// List returns every active account. Administrators only.
func (s *AccountService) List(ctx context.Context) result.Result[[]*domain.Account] {
	if _, appErr := requireAdmin(ctx, s.auth, s.store); appErr != nil {
		return result.Failure[[]*domain.Account](appErr)
	}

	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		return fail[[]*domain.Account](s.logger, "list accounts", err)
	}
	return result.Success(accounts)
}

// Rename changes the account name. Allowed to the account creator and administrators.
func (s *AccountService) Rename(ctx context.Context, id int64, name string) result.Result[*domain.Account] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Account](appErr)
	}

	var account *domain.Account
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		account, err = activeOr(uow.Accounts().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Conta")
		}
		if account.CreatorUserID() != a.ID() && !a.IsAdmin() {
			return errForbidden()
		}

		changed, err := account.Rename(name)
		if err != nil || !changed {
			return err
		}

		exists, err := uow.Accounts().ExistsByName(ctx, account.Name(), account.ID())
		if err != nil {
			return err
		}
		if exists {
			return errExists("name", "Já existe uma conta com este nome.")
		}
		return uow.Accounts().Update(ctx, account)
	})
	if err != nil {
		return fail[*domain.Account](s.logger, "rename account", err)
	}

	s.logger.Info().Int64("account_id", id).Str("name", account.Name()).Msg("account renamed")
	return result.Success(account, "Conta atualizada com sucesso.")
}

// ChangeSubscription sets the subscription level. Administrators only.
func (s *AccountService) ChangeSubscription(ctx context.Context, id int64, level string) result.Result[*domain.Account] {
	if _, appErr := requireAdmin(ctx, s.auth, s.store); appErr != nil {
		return result.Failure[*domain.Account](appErr)
	}

	var account *domain.Account
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		account, err = activeOr(uow.Accounts().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Conta")
		}

		changed, err := account.ChangeSubscription(level)
		if err != nil || !changed {
			return err
		}
		return uow.Accounts().Update(ctx, account)
	})
	if err != nil {
		return fail[*domain.Account](s.logger, "change subscription", err)
	}

	s.logger.Info().
		Int64("account_id", id).
		Str("subscription", account.SubscriptionLevel()).
		Msg("subscription changed")

	return result.Success(account, "Assinatura atualizada com sucesso.")
}

// Deactivate soft-deletes an account. Administrators only; a missing or
// already inactive account is a success.
func (s *AccountService) Deactivate(ctx context.Context, id int64) result.Void {
	if _, appErr := requireAdmin(ctx, s.auth, s.store); appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		account, err := activeOr(uow.Accounts().GetByID(ctx, id))
		if err != nil {
			return ignoreNotFound(err)
		}
		account.Deactivate()
		return uow.Accounts().Remove(ctx, account.ID())
	})
	if err != nil {
		return fail[result.Unit](s.logger, "deactivate account", err)
	}

	s.logger.Info().Int64("account_id", id).Msg("account deactivated")
	return result.Ok("Conta desativada com sucesso.")
}
