package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/lock"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// DefaultRatingStatsTTL is used when no TTL is configured.
const DefaultRatingStatsTTL = 5 * time.Minute

// RatingService manages star ratings. One active rating per user and recipe;
// storage does not enforce it, so first ratings are serialized per user and
// recipe by the locker. Without a locker, or while it is unreachable, two
// concurrent first ratings may both succeed.
type RatingService struct {
	store    repository.Store
	auth     Authenticator
	cache    repository.Cache
	locker   lock.Locker
	statsTTL time.Duration
	logger   zerolog.Logger
}

// NewRatingService creates a new RatingService. Averages are cached for
// statsTTL. locker may be nil.
func NewRatingService(
	store repository.Store,
	authn Authenticator,
	cache repository.Cache,
	locker lock.Locker,
	statsTTL time.Duration,
	logger zerolog.Logger,
) *RatingService {
	if statsTTL <= 0 {
		statsTTL = DefaultRatingStatsTTL
	}
	return &RatingService{
		store:    store,
		auth:     authn,
		cache:    cache,
		locker:   locker,
		statsTTL: statsTTL,
		logger:   logger.With().Str("service", "rating").Logger(),
	}
}

// Rate records the actor's first rating of a recipe.
func (s *RatingService) Rate(ctx context.Context, recipeID int64, stars int) result.Result[*domain.Rating] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Rating](appErr)
	}

	rating, err := domain.NewRating(a.ID(), recipeID, stars)
	if err != nil {
		return fail[*domain.Rating](s.logger, "rate recipe", err)
	}

	insert := func() error {
		_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
			if _, err := activeOr(uow.Recipes().GetByID(ctx, recipeID)); err != nil {
				return notFoundAs(err, "Receita")
			}

			_, err := uow.Ratings().GetByUserAndRecipe(ctx, a.ID(), recipeID)
			if err == nil {
				return errRated()
			}
			if err := ignoreNotFound(err); err != nil {
				return err
			}

			_, err = uow.Ratings().Add(ctx, rating)
			return err
		})
		return err
	}

	err = lock.Do(ctx, s.locker, lock.Keys.Rating(a.ID(), recipeID), lock.DefaultOptions, insert)
	switch {
	case errors.Is(err, repository.ErrCacheUnavailable):
		s.logger.Warn().Err(err).Int64("recipe_id", recipeID).Msg("rating lock unavailable")
		err = insert()
	case errors.Is(err, lock.ErrBusy):
		err = errRated()
	}
	if errors.Is(err, repository.ErrDuplicate) {
		err = errRated()
	}
	if err != nil {
		return fail[*domain.Rating](s.logger, "rate recipe", err)
	}

	s.invalidate(ctx, recipeID)
	s.logger.Info().
		Int64("recipe_id", recipeID).
		Int64("user_id", a.ID()).
		Int("stars", stars).
		Msg("recipe rated")

	return result.Success(rating, "Avaliação registrada com sucesso.")
}

func errRated() error {
	return errExists("recipeId", "Você já avaliou esta receita.")
}

// Change replaces the actor's rating of a recipe.
func (s *RatingService) Change(ctx context.Context, recipeID int64, stars int) result.Result[*domain.Rating] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Rating](appErr)
	}

	var rating *domain.Rating
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		rating, err = uow.Ratings().GetByUserAndRecipe(ctx, a.ID(), recipeID)
		if err != nil {
			return notFoundAs(err, "Avaliação")
		}
		changed, err := rating.Change(stars)
		if err != nil || !changed {
			return err
		}
		return uow.Ratings().Update(ctx, rating)
	})
	if err != nil {
		return fail[*domain.Rating](s.logger, "change rating", err)
	}

	s.invalidate(ctx, recipeID)
	return result.Success(rating, "Avaliação atualizada com sucesso.")
}

// Remove withdraws the actor's rating. A missing rating is a success.
func (s *RatingService) Remove(ctx context.Context, recipeID int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		rating, err := uow.Ratings().GetByUserAndRecipe(ctx, a.ID(), recipeID)
		if err != nil {
			return ignoreNotFound(err)
		}
		rating.Deactivate()
		return uow.Ratings().Remove(ctx, rating.ID())
	})
	if err != nil {
		return fail[result.Unit](s.logger, "remove rating", err)
	}

	s.invalidate(ctx, recipeID)
	return result.Ok("Avaliação removida com sucesso.")
}

// Average returns the rating summary of a recipe. Summaries are served from
// the cache when possible; cache failures fall back to storage.
func (s *RatingService) Average(ctx context.Context, recipeID int64) result.Result[repository.RatingStats] {
	key := repository.RatingStatsKey(recipeID)

	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var stats repository.RatingStats
		if jsonErr := json.Unmarshal(raw, &stats); jsonErr == nil {
			return result.Success(stats)
		}
		s.logger.Warn().Str("key", key).Msg("discarding malformed cached rating stats")
	case !errors.Is(err, repository.ErrCacheMiss):
		s.logger.Warn().Err(err).Str("key", key).Msg("rating stats cache read failed")
	}

	if _, err := activeOr(s.store.Recipes().GetByID(ctx, recipeID)); err != nil {
		return fail[repository.RatingStats](s.logger, "average rating", notFoundAs(err, "Receita"))
	}

	stats, err := s.store.Ratings().StatsForRecipe(ctx, recipeID)
	if err != nil {
		return fail[repository.RatingStats](s.logger, "average rating", err)
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.statsTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("rating stats cache write failed")
		}
	}
	return result.Success(stats)
}

// UserRating returns the actor's active rating of a recipe.
func (s *RatingService) UserRating(ctx context.Context, recipeID int64) result.Result[*domain.Rating] {
	id := s.auth.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[*domain.Rating](id)
	}

	rating, err := s.store.Ratings().GetByUserAndRecipe(ctx, id.Value(), recipeID)
	if err != nil {
		return fail[*domain.Rating](s.logger, "user rating", notFoundAs(err, "Avaliação"))
	}
	return result.Success(rating)
}

// invalidate drops the cached summary after a committed change.
func (s *RatingService) invalidate(ctx context.Context, recipeID int64) {
	if err := s.cache.Delete(ctx, repository.RatingStatsKey(recipeID)); err != nil {
		s.logger.Warn().Err(err).Int64("recipe_id", recipeID).Msg("rating stats cache invalidation failed")
	}
}
