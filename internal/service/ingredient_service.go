package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// IngredientService manages the shared ingredient catalogue and its types.
// Any user may add ingredients; changing or removing them requires a moderator.
type IngredientService struct {
	store  repository.Store
	auth   Authenticator
	types  *namedService[*domain.IngredientType]
	logger zerolog.Logger
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(store repository.Store, authn Authenticator, logger zerolog.Logger) *IngredientService {
	return &IngredientService{
		store:  store,
		auth:   authn,
		types:  newIngredientTypeService(store, authn, logger),
		logger: logger.With().Str("service", "ingredient").Logger(),
	}
}

// IngredientInput contains the editable fields of an ingredient.
type IngredientInput struct {
	Name   string
	TypeID int64
}

// Create adds an ingredient.
func (s *IngredientService) Create(ctx context.Context, input IngredientInput) result.Result[*domain.Ingredient] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Ingredient](appErr)
	}

	ingredient, err := domain.NewIngredient(input.Name, input.TypeID)
	if err != nil {
		return fail[*domain.Ingredient](s.logger, "create ingredient", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if err := s.checkReferences(ctx, uow, ingredient, 0); err != nil {
			return err
		}
		_, err := uow.Ingredients().Add(ctx, ingredient)
		return err
	})
	if err != nil {
		return fail[*domain.Ingredient](s.logger, "create ingredient", err)
	}

	s.logger.Info().
		Int64("ingredient_id", ingredient.ID()).
		Str("name", ingredient.Name()).
		Int64("actor_id", a.ID()).
		Msg("ingredient created")

	return result.Success(ingredient, "Ingrediente criado com sucesso.")
}

func (s *IngredientService) checkReferences(ctx context.Context, uow repository.UnitOfWork, i *domain.Ingredient, id int64) error {
	if _, err := activeOr(uow.IngredientTypes().GetByID(ctx, i.TypeID())); err != nil {
		return notFoundAs(err, "Tipo de ingrediente")
	}
	exists, err := uow.Ingredients().ExistsByName(ctx, i.Name(), id)
	if err != nil {
		return err
	}
	if exists {
		return errExists("name", "Já existe um ingrediente com este nome.")
	}
	return nil
}

// Get returns an active ingredient.
func (s *IngredientService) Get(ctx context.Context, id int64) result.Result[*domain.Ingredient] {
	ingredient, err := activeOr(s.store.Ingredients().GetByID(ctx, id))
	if err != nil {
		return fail[*domain.Ingredient](s.logger, "get ingredient", notFoundAs(err, "Ingrediente"))
	}
	return result.Success(ingredient)
}

// List returns the active ingredients ordered by name.
func (s *IngredientService) List(ctx context.Context) result.Result[[]*domain.Ingredient] {
	ingredients, err := s.store.Ingredients().List(ctx)
	if err != nil {
		return fail[[]*domain.Ingredient](s.logger, "list ingredients", err)
	}
	return result.Success(ingredients)
}

// Update renames or retypes an ingredient. Moderators only.
func (s *IngredientService) Update(ctx context.Context, id int64, input IngredientInput) result.Result[*domain.Ingredient] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Ingredient](appErr)
	}
	if !a.CanModerate() {
		return result.Failure[*domain.Ingredient](errForbidden())
	}

	var ingredient *domain.Ingredient
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		ingredient, err = activeOr(uow.Ingredients().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Ingrediente")
		}

		renamed, err := ingredient.Rename(input.Name)
		if err != nil {
			return err
		}
		retyped, err := ingredient.ChangeType(input.TypeID)
		if err != nil {
			return err
		}
		if !renamed && !retyped {
			return nil
		}

		if err := s.checkReferences(ctx, uow, ingredient, id); err != nil {
			return err
		}
		return uow.Ingredients().Update(ctx, ingredient)
	})
	if err != nil {
		return fail[*domain.Ingredient](s.logger, "update ingredient", err)
	}

	s.logger.Info().Int64("ingredient_id", id).Int64("actor_id", a.ID()).Msg("ingredient updated")
	return result.Success(ingredient, "Ingrediente atualizado com sucesso.")
}

// Delete soft-deletes an ingredient no recipe uses. Moderators only; a
// missing or already inactive ingredient is a success.
func (s *IngredientService) Delete(ctx context.Context, id int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}
	if !a.CanModerate() {
		return result.Fail(errForbidden())
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		ingredient, err := activeOr(uow.Ingredients().GetByID(ctx, id))
		if err != nil {
			return ignoreNotFound(err)
		}

		n, err := uow.IngredientUsages().CountByIngredient(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return errDependencies("Não é possível remover um ingrediente usado em receitas.")
		}

		ingredient.Deactivate()
		return uow.Ingredients().Remove(ctx, id)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "delete ingredient", err)
	}

	s.logger.Info().Int64("ingredient_id", id).Int64("actor_id", a.ID()).Msg("ingredient deleted")
	return result.Ok("Ingrediente removido com sucesso.")
}

// =============================================================================
// Ingredient Types
// =============================================================================

// CreateType adds an ingredient type. Administrators only.
func (s *IngredientService) CreateType(ctx context.Context, name string) result.Result[*domain.IngredientType] {
	return s.types.Create(ctx, name)
}

// ListTypes returns the active ingredient types.
func (s *IngredientService) ListTypes(ctx context.Context) result.Result[[]*domain.IngredientType] {
	return s.types.List(ctx)
}

// RenameType renames an ingredient type. Administrators only.
func (s *IngredientService) RenameType(ctx context.Context, id int64, name string) result.Result[*domain.IngredientType] {
	return s.types.Rename(ctx, id, name)
}

// DeleteType removes an ingredient type no ingredient uses. Administrators only.
func (s *IngredientService) DeleteType(ctx context.Context, id int64) result.Void {
	return s.types.Delete(ctx, id)
}
