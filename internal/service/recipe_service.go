package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// RecipeService manages recipes, their moderation and their ingredient lists.
// Only the author may change a recipe; moderators approve it.
type RecipeService struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(store repository.Store, authn Authenticator, logger zerolog.Logger) *RecipeService {
	return &RecipeService{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "recipe").Logger(),
	}
}

// IngredientLine contains the data needed to add or change a recipe ingredient.
type IngredientLine struct {
	IngredientID int64
	Quantity     float64
	Unit         string
}

// =============================================================================
// Recipes
// =============================================================================

// Create adds an unapproved recipe authored by the actor.
func (s *RecipeService) Create(ctx context.Context, details domain.RecipeDetails) result.Result[*domain.Recipe] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Recipe](appErr)
	}

	recipe, err := domain.NewRecipe(a.ID(), details)
	if err != nil {
		return fail[*domain.Recipe](s.logger, "create recipe", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if err := s.checkReferences(ctx, uow, a, recipe); err != nil {
			return err
		}
		_, err := uow.Recipes().Add(ctx, recipe)
		return err
	})
	if err != nil {
		return fail[*domain.Recipe](s.logger, "create recipe", err)
	}

	s.logger.Info().
		Int64("recipe_id", recipe.ID()).
		Int64("user_id", a.ID()).
		Str("title", recipe.Title()).
		Msg("recipe created")

	return result.Success(recipe, "Receita criada com sucesso.")
}

// checkReferences verifies the category belongs to the actor's account and
// the difficulty exists.
func (s *RecipeService) checkReferences(ctx context.Context, uow repository.UnitOfWork, a actor, r *domain.Recipe) error {
	category, err := activeOr(uow.Categories().GetByID(ctx, r.CategoryID()))
	if err != nil {
		return notFoundAs(err, "Categoria")
	}
	if category.AccountID() != a.AccountID() {
		return errForbidden()
	}
	if _, err := activeOr(uow.Difficulties().GetByID(ctx, r.DifficultyID())); err != nil {
		return notFoundAs(err, "Dificuldade")
	}
	return nil
}

// visible reports whether the caller may see a recipe. Approved recipes are
// public; drafts are visible to their author and moderators.
func (s *RecipeService) visible(ctx context.Context, r *domain.Recipe) bool {
	if r.IsApproved() {
		return true
	}
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return false
	}
	return r.IsOwnedBy(a.ID()) || a.CanModerate()
}

// Get returns an active recipe visible to the caller.
func (s *RecipeService) Get(ctx context.Context, id int64) result.Result[*domain.Recipe] {
	recipe, err := activeOr(s.store.Recipes().GetByID(ctx, id))
	if err != nil {
		return fail[*domain.Recipe](s.logger, "get recipe", notFoundAs(err, "Receita"))
	}
	if !s.visible(ctx, recipe) {
		return result.Failure[*domain.Recipe](errNotFound("Receita"))
	}
	return result.Success(recipe)
}

// ListApproved returns the approved recipes, newest first.
func (s *RecipeService) ListApproved(ctx context.Context) result.Result[[]*domain.Recipe] {
	recipes, err := s.store.Recipes().ListApproved(ctx)
	if err != nil {
		return fail[[]*domain.Recipe](s.logger, "list recipes", err)
	}
	return result.Success(recipes)
}

// ListByUser returns the recipes of an author. Drafts are included only for
// the author and moderators.
func (s *RecipeService) ListByUser(ctx context.Context, userID int64) result.Result[[]*domain.Recipe] {
	recipes, err := s.store.Recipes().ListByUser(ctx, userID)
	if err != nil {
		return fail[[]*domain.Recipe](s.logger, "list recipes by user", err)
	}
	return result.Success(s.filterVisible(ctx, recipes))
}

// ListByCategory returns the visible recipes of a category.
func (s *RecipeService) ListByCategory(ctx context.Context, categoryID int64) result.Result[[]*domain.Recipe] {
	recipes, err := s.store.Recipes().ListByCategory(ctx, categoryID)
	if err != nil {
		return fail[[]*domain.Recipe](s.logger, "list recipes by category", err)
	}
	return result.Success(s.filterVisible(ctx, recipes))
}

func (s *RecipeService) filterVisible(ctx context.Context, recipes []*domain.Recipe) []*domain.Recipe {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	out := make([]*domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.IsApproved() || (appErr == nil && (r.IsOwnedBy(a.ID()) || a.CanModerate())) {
			out = append(out, r)
		}
	}
	return out
}

// Update replaces the details of a recipe. Author only.
func (s *RecipeService) Update(ctx context.Context, id int64, details domain.RecipeDetails) result.Result[*domain.Recipe] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Recipe](appErr)
	}

	var recipe *domain.Recipe
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		recipe, err = s.loadOwned(ctx, uow, a, id)
		if err != nil {
			return err
		}

		changed, err := recipe.UpdateDetails(details)
		if err != nil || !changed {
			return err
		}
		if err := s.checkReferences(ctx, uow, a, recipe); err != nil {
			return err
		}
		return uow.Recipes().Update(ctx, recipe)
	})
	if err != nil {
		return fail[*domain.Recipe](s.logger, "update recipe", err)
	}

	s.logger.Info().Int64("recipe_id", id).Int64("user_id", a.ID()).Msg("recipe updated")
	return result.Success(recipe, "Receita atualizada com sucesso.")
}

// loadOwned loads an active recipe and refuses anyone but its author.
func (s *RecipeService) loadOwned(ctx context.Context, uow repository.UnitOfWork, a actor, id int64) (*domain.Recipe, error) {
	recipe, err := activeOr(uow.Recipes().GetByID(ctx, id))
	if err != nil {
		return nil, notFoundAs(err, "Receita")
	}
	if !recipe.IsOwnedBy(a.ID()) {
		return nil, errForbidden()
	}
	return recipe, nil
}

// Delete soft-deletes a recipe. Author only; a missing or already inactive
// recipe is a success.
func (s *RecipeService) Delete(ctx context.Context, id int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		recipe, err := activeOr(uow.Recipes().GetByID(ctx, id))
		if err != nil {
			return ignoreNotFound(err)
		}
		if !recipe.IsOwnedBy(a.ID()) {
			return errForbidden()
		}
		recipe.Deactivate()
		return uow.Recipes().Remove(ctx, id)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "delete recipe", err)
	}

	s.logger.Info().Int64("recipe_id", id).Int64("user_id", a.ID()).Msg("recipe deleted")
	return result.Ok("Receita removida com sucesso.")
}

// Approve publishes a recipe. Admins and moderators only; approving twice is
// a success.
func (s *RecipeService) Approve(ctx context.Context, id int64) result.Result[*domain.Recipe] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Recipe](appErr)
	}
	if !a.CanModerate() {
		return result.Failure[*domain.Recipe](errForbidden())
	}

	var recipe *domain.Recipe
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		recipe, err = activeOr(uow.Recipes().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Receita")
		}
		if !recipe.Approve() {
			return nil
		}
		return uow.Recipes().Update(ctx, recipe)
	})
	if err != nil {
		return fail[*domain.Recipe](s.logger, "approve recipe", err)
	}

	s.logger.Info().Int64("recipe_id", id).Int64("moderator_id", a.ID()).Msg("recipe approved")
	return result.Success(recipe, "Receita aprovada com sucesso.")
}

// =============================================================================
// Ingredients
// =============================================================================

// AddIngredient links an ingredient to a recipe. Author only; an ingredient
// may appear once per recipe.
func (s *RecipeService) AddIngredient(ctx context.Context, recipeID int64, line IngredientLine) result.Result[*domain.IngredientUsage] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.IngredientUsage](appErr)
	}

	usage, err := domain.NewIngredientUsage(recipeID, line.IngredientID, line.Quantity, line.Unit)
	if err != nil {
		return fail[*domain.IngredientUsage](s.logger, "add ingredient", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if _, err := s.loadOwned(ctx, uow, a, recipeID); err != nil {
			return err
		}
		if _, err := activeOr(uow.Ingredients().GetByID(ctx, line.IngredientID)); err != nil {
			return notFoundAs(err, "Ingrediente")
		}

		_, err := uow.IngredientUsages().GetByRecipeAndIngredient(ctx, recipeID, line.IngredientID)
		if err == nil {
			return errExists("ingredientId", "O ingrediente já faz parte da receita.")
		}
		if err := ignoreNotFound(err); err != nil {
			return err
		}

		_, err = uow.IngredientUsages().Add(ctx, usage)
		return err
	})
	if err != nil {
		return fail[*domain.IngredientUsage](s.logger, "add ingredient", err)
	}

	s.logger.Info().
		Int64("recipe_id", recipeID).
		Int64("ingredient_id", line.IngredientID).
		Msg("ingredient added to recipe")

	return result.Success(usage, "Ingrediente adicionado à receita.")
}

// UpdateIngredient changes quantity and unit of a recipe ingredient. Author only.
func (s *RecipeService) UpdateIngredient(ctx context.Context, recipeID int64, line IngredientLine) result.Result[*domain.IngredientUsage] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.IngredientUsage](appErr)
	}

	var usage *domain.IngredientUsage
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if _, err := s.loadOwned(ctx, uow, a, recipeID); err != nil {
			return err
		}

		var err error
		usage, err = uow.IngredientUsages().GetByRecipeAndIngredient(ctx, recipeID, line.IngredientID)
		if err != nil {
			return notFoundAs(err, "Ingrediente da receita")
		}

		changed, err := usage.Update(line.Quantity, line.Unit)
		if err != nil || !changed {
			return err
		}
		return uow.IngredientUsages().Update(ctx, usage)
	})
	if err != nil {
		return fail[*domain.IngredientUsage](s.logger, "update ingredient", err)
	}

	return result.Success(usage, "Ingrediente da receita atualizado.")
}

// RemoveIngredient unlinks an ingredient from a recipe. Author only; a
// missing link is a success.
func (s *RecipeService) RemoveIngredient(ctx context.Context, recipeID, ingredientID int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if _, err := s.loadOwned(ctx, uow, a, recipeID); err != nil {
			return err
		}

		usage, err := uow.IngredientUsages().GetByRecipeAndIngredient(ctx, recipeID, ingredientID)
		if err != nil {
			return ignoreNotFound(err)
		}
		usage.Deactivate()
		return uow.IngredientUsages().Remove(ctx, usage.ID())
	})
	if err != nil {
		return fail[result.Unit](s.logger, "remove ingredient", err)
	}

	return result.Ok("Ingrediente removido da receita.")
}

// ListIngredients returns the ingredient lines of a visible recipe.
func (s *RecipeService) ListIngredients(ctx context.Context, recipeID int64) result.Result[[]*domain.IngredientUsage] {
	recipe := s.Get(ctx, recipeID)
	if recipe.IsFailure() {
		return result.Forward[[]*domain.IngredientUsage](recipe)
	}

	usages, err := s.store.IngredientUsages().ListByRecipe(ctx, recipeID)
	if err != nil {
		return fail[[]*domain.IngredientUsage](s.logger, "list ingredients", err)
	}
	return result.Success(usages)
}
