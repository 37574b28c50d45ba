package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// FavoritesService manages the actor's favorite recipes. Adding and removing
// are both idempotent; a removed favorite is reactivated rather than duplicated.
type FavoritesService struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger
}

// NewFavoritesService creates a new FavoritesService.
func NewFavoritesService(store repository.Store, authn Authenticator, logger zerolog.Logger) *FavoritesService {
	return &FavoritesService{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "favorites").Logger(),
	}
}

// Add marks a recipe as favorite.
func (s *FavoritesService) Add(ctx context.Context, recipeID int64) result.Result[*domain.Favorite] {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[*domain.Favorite](id)
	}
	userID := id.Value()

	var favorite *domain.Favorite
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if _, err := activeOr(uow.Recipes().GetByID(ctx, recipeID)); err != nil {
			return notFoundAs(err, "Receita")
		}

		var err error
		favorite, err = uow.Favorites().GetByUserAndRecipe(ctx, userID, recipeID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			favorite, err = domain.NewFavorite(userID, recipeID)
			if err != nil {
				return err
			}
			_, err = uow.Favorites().Add(ctx, favorite)
			return err
		case err != nil:
			return err
		case favorite.Reactivate():
			return uow.Favorites().Update(ctx, favorite)
		default:
			return nil
		}
	})
	if err != nil {
		return fail[*domain.Favorite](s.logger, "add favorite", err)
	}

	s.logger.Debug().Int64("user_id", userID).Int64("recipe_id", recipeID).Msg("favorite added")
	return result.Success(favorite, "Receita adicionada aos favoritos.")
}

// Remove unmarks a recipe. A recipe that is not a favorite is a success.
func (s *FavoritesService) Remove(ctx context.Context, recipeID int64) result.Void {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[result.Unit](id)
	}
	userID := id.Value()

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		favorite, err := uow.Favorites().GetByUserAndRecipe(ctx, userID, recipeID)
		if err != nil {
			return ignoreNotFound(err)
		}
		if !favorite.Deactivate() {
			return nil
		}
		return uow.Favorites().Update(ctx, favorite)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "remove favorite", err)
	}

	s.logger.Debug().Int64("user_id", userID).Int64("recipe_id", recipeID).Msg("favorite removed")
	return result.Ok("Receita removida dos favoritos.")
}

// ListForCurrentUser returns the actor's favorites, newest first.
func (s *FavoritesService) ListForCurrentUser(ctx context.Context) result.Result[[]*domain.Favorite] {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[[]*domain.Favorite](id)
	}

	favorites, err := s.store.Favorites().ListByUser(ctx, id.Value())
	if err != nil {
		return fail[[]*domain.Favorite](s.logger, "list favorites", err)
	}
	return result.Success(favorites)
}

// IsFavorite reports whether the actor has marked the recipe.
func (s *FavoritesService) IsFavorite(ctx context.Context, recipeID int64) result.Result[bool] {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[bool](id)
	}

	favorite, err := s.store.Favorites().GetByUserAndRecipe(ctx, id.Value(), recipeID)
	if errors.Is(err, repository.ErrNotFound) {
		return result.Success(false)
	}
	if err != nil {
		return fail[bool](s.logger, "is favorite", err)
	}
	return result.Success(favorite.IsActive())
}
