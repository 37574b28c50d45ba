package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// UserSettingsService manages the actor's preferences.
type UserSettingsService struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger
}

// NewUserSettingsService creates a new UserSettingsService.
func NewUserSettingsService(store repository.Store, authn Authenticator, logger zerolog.Logger) *UserSettingsService {
	return &UserSettingsService{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "user_settings").Logger(),
	}
}

// SettingsInput contains the editable preferences.
type SettingsInput struct {
	Theme                string
	Language             string
	NotificationsEnabled bool
}

// Current returns the actor's settings, creating the defaults on first use.
func (s *UserSettingsService) Current(ctx context.Context) result.Result[*domain.UserSettings] {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[*domain.UserSettings](id)
	}

	settings, err := s.store.UserSettings().GetByUser(ctx, id.Value())
	if err == nil {
		return result.Success(settings)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fail[*domain.UserSettings](s.logger, "get settings", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		settings, err = loadOrCreateSettings(ctx, uow, id.Value())
		return err
	})
	if err != nil {
		return fail[*domain.UserSettings](s.logger, "get settings", err)
	}
	return result.Success(settings)
}

// Update replaces the actor's preferences.
func (s *UserSettingsService) Update(ctx context.Context, input SettingsInput) result.Result[*domain.UserSettings] {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[*domain.UserSettings](id)
	}

	var settings *domain.UserSettings
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		settings, err = loadOrCreateSettings(ctx, uow, id.Value())
		if err != nil {
			return err
		}
		changed, err := settings.Update(input.Theme, input.Language, input.NotificationsEnabled)
		if err != nil || !changed {
			return err
		}
		return uow.UserSettings().Update(ctx, settings)
	})
	if err != nil {
		return fail[*domain.UserSettings](s.logger, "update settings", err)
	}

	s.logger.Debug().Int64("user_id", id.Value()).Str("theme", settings.Theme()).Msg("settings updated")
	return result.Success(settings, "Preferências atualizadas com sucesso.")
}

// loadOrCreateSettings returns the stored settings or inserts the defaults.
func loadOrCreateSettings(ctx context.Context, uow repository.UnitOfWork, userID int64) (*domain.UserSettings, error) {
	settings, err := uow.UserSettings().GetByUser(ctx, userID)
	if err == nil || !errors.Is(err, repository.ErrNotFound) {
		return settings, err
	}

	settings, err = domain.DefaultUserSettings(userID)
	if err != nil {
		return nil, err
	}
	if _, err := uow.UserSettings().Add(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
