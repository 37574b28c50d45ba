package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// CategoryService manages the category tree of an account.
type CategoryService struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(store repository.Store, authn Authenticator, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "category").Logger(),
	}
}

// CategoryInput contains the editable fields of a category.
type CategoryInput struct {
	Name   string
	TypeID int64

	// ParentID is 0 for a root category.
	ParentID int64
}

// Create adds a category to the actor's account.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) result.Result[*domain.Category] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Category](appErr)
	}

	category, err := domain.NewCategory(input.Name, a.AccountID(), input.TypeID, input.ParentID)
	if err != nil {
		return fail[*domain.Category](s.logger, "create category", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if err := s.checkReferences(ctx, uow, category, 0); err != nil {
			return err
		}
		_, err := uow.Categories().Add(ctx, category)
		return err
	})
	if err != nil {
		return fail[*domain.Category](s.logger, "create category", err)
	}

	s.logger.Info().
		Int64("category_id", category.ID()).
		Int64("account_id", category.AccountID()).
		Str("name", category.Name()).
		Msg("category created")

	return result.Success(category, "Categoria criada com sucesso.")
}

// checkReferences verifies type, parent and name uniqueness for a category
// that is being created (id 0) or updated.
func (s *CategoryService) checkReferences(ctx context.Context, uow repository.UnitOfWork, c *domain.Category, id int64) error {
	if _, err := activeOr(uow.CategoryTypes().GetByID(ctx, c.TypeID())); err != nil {
		return notFoundAs(err, "Tipo de categoria")
	}

	if c.HasParent() {
		parent, err := activeOr(uow.Categories().GetByID(ctx, c.ParentID()))
		if err != nil {
			return notFoundAs(err, "Categoria pai")
		}
		if parent.AccountID() != c.AccountID() {
			return apperr.BusinessRuleViolation(apperr.CodeBizRule, "A categoria pai pertence a outra conta.")
		}
		if id != 0 {
			if err := s.checkCycle(ctx, uow, id, parent); err != nil {
				return err
			}
		}
	}

	exists, err := uow.Categories().ExistsByName(ctx, c.AccountID(), c.Name(), id)
	if err != nil {
		return err
	}
	if exists {
		return errExists("name", "Já existe uma categoria com este nome.")
	}
	return nil
}

// checkCycle walks up from parent and refuses when it reaches id.
func (s *CategoryService) checkCycle(ctx context.Context, uow repository.UnitOfWork, id int64, parent *domain.Category) error {
	seen := map[int64]bool{}
	for node := parent; node != nil; {
		if node.ID() == id {
			return apperr.BusinessRuleViolation(apperr.CodeBizRule,
				"Uma categoria não pode ser subcategoria de si mesma ou de suas subcategorias.")
		}
		if !node.HasParent() || seen[node.ID()] {
			return nil
		}
		seen[node.ID()] = true

		next, err := uow.Categories().GetByID(ctx, node.ParentID())
		if err != nil {
			return ignoreNotFound(err)
		}
		node = next
	}
	return nil
}

// Get returns a category with its direct subcategories.
func (s *CategoryService) Get(ctx context.Context, id int64) result.Result[*domain.Category] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Category](appErr)
	}

	category, err := activeOr(s.store.Categories().GetByID(ctx, id))
	if err != nil {
		return fail[*domain.Category](s.logger, "get category", notFoundAs(err, "Categoria"))
	}
	if category.AccountID() != a.AccountID() && !a.IsAdmin() {
		return result.Failure[*domain.Category](errForbidden())
	}

	children, err := s.store.Categories().ListChildren(ctx, id)
	if err != nil {
		return fail[*domain.Category](s.logger, "get category", err)
	}
	category.AttachSubcategories(children)
	return result.Success(category)
}

// ListByAccount returns the active categories of an account.
func (s *CategoryService) ListByAccount(ctx context.Context, accountID int64) result.Result[[]*domain.Category] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[[]*domain.Category](appErr)
	}
	if a.AccountID() != accountID && !a.IsAdmin() {
		return result.Failure[[]*domain.Category](errForbidden())
	}

	categories, err := s.store.Categories().ListByAccount(ctx, accountID)
	if err != nil {
		return fail[[]*domain.Category](s.logger, "list categories", err)
	}
	return result.Success(categories)
}

// Update changes name, type and parent of a category of the actor's account.
func (s *CategoryService) Update(ctx context.Context, id int64, input CategoryInput) result.Result[*domain.Category] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Category](appErr)
	}

	var category *domain.Category
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		category, err = activeOr(uow.Categories().GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, "Categoria")
		}
		if category.AccountID() != a.AccountID() && !a.IsAdmin() {
			return errForbidden()
		}

		changed, err := category.UpdateDetails(input.Name, input.TypeID, input.ParentID)
		if err != nil || !changed {
			return err
		}
		if err := s.checkReferences(ctx, uow, category, id); err != nil {
			return err
		}
		return uow.Categories().Update(ctx, category)
	})
	if err != nil {
		return fail[*domain.Category](s.logger, "update category", err)
	}

	s.logger.Info().Int64("category_id", id).Int64("actor_id", a.ID()).Msg("category updated")
	return result.Success(category, "Categoria atualizada com sucesso.")
}

// Delete soft-deletes a category that holds no recipes or subcategories.
// A missing or already inactive category is a success.
func (s *CategoryService) Delete(ctx context.Context, id int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		category, err := activeOr(uow.Categories().GetByID(ctx, id))
		if err != nil {
			return ignoreNotFound(err)
		}
		if category.AccountID() != a.AccountID() && !a.IsAdmin() {
			return errForbidden()
		}

		recipes, err := uow.Recipes().CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if recipes > 0 {
			return errDependencies("Não é possível remover uma categoria que possui receitas.")
		}
		children, err := uow.Categories().ListChildren(ctx, id)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return errDependencies("Não é possível remover uma categoria que possui subcategorias.")
		}

		category.Deactivate()
		return uow.Categories().Remove(ctx, id)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "delete category", err)
	}

	s.logger.Info().Int64("category_id", id).Int64("actor_id", a.ID()).Msg("category deleted")
	return result.Ok("Categoria removida com sucesso.")
}
