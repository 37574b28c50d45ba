package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// namedEntity is a reference entity that can be renamed and soft-deleted.
type namedEntity interface {
	repository.Named
	Rename(name string) (bool, error)
	Deactivate() bool
}

// namedService implements the lookup-table operations shared by roles,
// difficulties, category types and ingredient types. Reads are public and
// mutations require an administrator.
type namedService[T namedEntity] struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger

	// what names the entity in user-facing messages.
	what string

	repo   func(r repository.Repositories) repository.ReferenceRepository[T]
	create func(name string) (T, error)

	// inUse counts active rows that still reference the entity.
	inUse func(ctx context.Context, r repository.Repositories, id int64) (int64, error)
	// inUseMessage explains the Biz.Dependencies failure of Delete.
	inUseMessage string
}

// Create adds a new entry.
func (s *namedService[T]) Create(ctx context.Context, name string) result.Result[T] {
	a, appErr := requireAdmin(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[T](appErr)
	}

	entity, err := s.create(name)
	if err != nil {
		return fail[T](s.logger, "create", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		exists, err := s.repo(uow).ExistsByName(ctx, entity.Name(), 0)
		if err != nil {
			return err
		}
		if exists {
			return errExists("name", "Já existe um registro com este nome.")
		}
		_, err = s.repo(uow).Add(ctx, entity)
		return err
	})
	if err != nil {
		return fail[T](s.logger, "create", err)
	}

	s.logger.Info().Int64("id", entity.ID()).Str("name", entity.Name()).Int64("actor_id", a.ID()).Msg("created")
	return result.Success(entity, s.what+" criado(a) com sucesso.")
}

// Get returns an active entry.
func (s *namedService[T]) Get(ctx context.Context, id int64) result.Result[T] {
	entity, err := activeOr(s.repo(s.store).GetByID(ctx, id))
	if err != nil {
		return fail[T](s.logger, "get", notFoundAs(err, s.what))
	}
	return result.Success(entity)
}

// List returns every active entry ordered by name.
func (s *namedService[T]) List(ctx context.Context) result.Result[[]T] {
	entities, err := s.repo(s.store).List(ctx)
	if err != nil {
		return fail[[]T](s.logger, "list", err)
	}
	return result.Success(entities)
}

// Rename changes the name of an entry.
func (s *namedService[T]) Rename(ctx context.Context, id int64, name string) result.Result[T] {
	if _, appErr := requireAdmin(ctx, s.auth, s.store); appErr != nil {
		return result.Failure[T](appErr)
	}

	var entity T
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		entity, err = activeOr(s.repo(uow).GetByID(ctx, id))
		if err != nil {
			return notFoundAs(err, s.what)
		}

		changed, err := entity.Rename(name)
		if err != nil || !changed {
			return err
		}

		exists, err := s.repo(uow).ExistsByName(ctx, entity.Name(), id)
		if err != nil {
			return err
		}
		if exists {
			return errExists("name", "Já existe um registro com este nome.")
		}
		return s.repo(uow).Update(ctx, entity)
	})
	if err != nil {
		return fail[T](s.logger, "rename", err)
	}

	s.logger.Info().Int64("id", id).Str("name", entity.Name()).Msg("renamed")
	return result.Success(entity, s.what+" atualizado(a) com sucesso.")
}

// Delete soft-deletes an entry that nothing references any more. A missing
// or already inactive entry is a success.
func (s *namedService[T]) Delete(ctx context.Context, id int64) result.Void {
	if _, appErr := requireAdmin(ctx, s.auth, s.store); appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		entity, err := activeOr(s.repo(uow).GetByID(ctx, id))
		if err != nil {
			return ignoreNotFound(err)
		}

		n, err := s.inUse(ctx, uow, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return errDependencies(s.inUseMessage)
		}

		entity.Deactivate()
		return s.repo(uow).Remove(ctx, id)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "delete", err)
	}

	s.logger.Info().Int64("id", id).Msg("deleted")
	return result.Ok(s.what + " removido(a) com sucesso.")
}

// =============================================================================
// Concrete Services
// =============================================================================

// UserRoleService manages user roles.
type UserRoleService struct {
	*namedService[*domain.UserRole]
}

// NewUserRoleService creates a new UserRoleService.
func NewUserRoleService(store repository.Store, authn Authenticator, logger zerolog.Logger) *UserRoleService {
	return &UserRoleService{&namedService[*domain.UserRole]{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "user_role").Logger(),
		what:   "Perfil",
		repo: func(r repository.Repositories) repository.UserRoleRepository {
			return r.UserRoles()
		},
		create: domain.NewUserRole,
		inUse: func(ctx context.Context, r repository.Repositories, id int64) (int64, error) {
			return r.Users().CountByRole(ctx, id)
		},
		inUseMessage: "Não é possível remover um perfil atribuído a usuários.",
	}}
}

// DifficultyService manages recipe difficulties.
type DifficultyService struct {
	*namedService[*domain.Difficulty]
}

// NewDifficultyService creates a new DifficultyService.
func NewDifficultyService(store repository.Store, authn Authenticator, logger zerolog.Logger) *DifficultyService {
	return &DifficultyService{&namedService[*domain.Difficulty]{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "difficulty").Logger(),
		what:   "Dificuldade",
		repo: func(r repository.Repositories) repository.DifficultyRepository {
			return r.Difficulties()
		},
		create: domain.NewDifficulty,
		inUse: func(ctx context.Context, r repository.Repositories, id int64) (int64, error) {
			return r.Recipes().CountByDifficulty(ctx, id)
		},
		inUseMessage: "Não é possível remover uma dificuldade usada por receitas.",
	}}
}

// CategoryTypeService manages category types.
type CategoryTypeService struct {
	*namedService[*domain.CategoryType]
}

// NewCategoryTypeService creates a new CategoryTypeService.
func NewCategoryTypeService(store repository.Store, authn Authenticator, logger zerolog.Logger) *CategoryTypeService {
	return &CategoryTypeService{&namedService[*domain.CategoryType]{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "category_type").Logger(),
		what:   "Tipo de categoria",
		repo: func(r repository.Repositories) repository.CategoryTypeRepository {
			return r.CategoryTypes()
		},
		create: domain.NewCategoryType,
		inUse: func(ctx context.Context, r repository.Repositories, id int64) (int64, error) {
			return r.Categories().CountByType(ctx, id)
		},
		inUseMessage: "Não é possível remover um tipo usado por categorias.",
	}}
}

func newIngredientTypeService(store repository.Store, authn Authenticator, logger zerolog.Logger) *namedService[*domain.IngredientType] {
	return &namedService[*domain.IngredientType]{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "ingredient_type").Logger(),
		what:   "Tipo de ingrediente",
		repo: func(r repository.Repositories) repository.IngredientTypeRepository {
			return r.IngredientTypes()
		},
		create: domain.NewIngredientType,
		inUse: func(ctx context.Context, r repository.Repositories, id int64) (int64, error) {
			return r.Ingredients().CountByType(ctx, id)
		},
		inUseMessage: "Não é possível remover um tipo usado por ingredientes.",
	}
}
