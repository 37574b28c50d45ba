// Package service provides the domain services of recipebook.
//
// Every mutating method follows the same four phases:
//
//  1. resolve the actor through the Authenticator (Unauthorized on failure);
//  2. load and check referenced state (NotFound, Forbidden, Conflict);
//  3. mutate inside repository.WithinTx, which rolls back on any error;
//  4. wrap the outcome in a result.Result.
//
// Within a transaction closure services only use the UnitOfWork they were
// handed, never the Store, so a single-connection database cannot deadlock.
package service

import (
	"context"
	"errors"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/pkg/password"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// =============================================================================
// Collaborators
// =============================================================================

// Authenticator resolves the actor of the current request.
type Authenticator interface {
	// CurrentUserID returns the authenticated user id or Unauthorized.
	CurrentUserID(ctx context.Context) result.Result[int64]

	// PersistedUser loads the authenticated user or returns Unauthorized.
	PersistedUser(ctx context.Context) result.Result[*domain.User]
}

// PasswordHasher derives and verifies password hashes.
type PasswordHasher interface {
	GenerateSalt() string
	HashPassword(plain, salt string) result.Result[password.Hashed]
	VerifyPassword(storedHash, plain, salt string) bool
}

// TokenIssuer issues access tokens.
type TokenIssuer interface {
	GenerateToken(user *domain.User) (auth.Token, error)
}

// TokenRevoker invalidates an issued token before it expires.
type TokenRevoker interface {
	Revoke(ctx context.Context, p auth.Principal) error
}

var (
	_ PasswordHasher = (*password.Hasher)(nil)
	_ TokenIssuer    = (*auth.TokenIssuer)(nil)
	_ TokenRevoker   = (*auth.Verifier)(nil)
)

// =============================================================================
// Actor
// =============================================================================

// actor is the authenticated caller together with its role.
type actor struct {
	user *domain.User
	role *domain.UserRole
}

func (a actor) ID() int64 {
	return a.user.ID()
}

func (a actor) AccountID() int64 {
	return a.user.AccountID()
}

func (a actor) IsAdmin() bool {
	return a.role != nil && a.role.IsActive() && a.role.IsAdmin()
}

func (a actor) CanModerate() bool {
	return a.role != nil && a.role.IsActive() && a.role.CanModerate()
}

// resolveActor runs phase one: it loads the caller and its role outside any
// transaction.
func resolveActor(ctx context.Context, authn Authenticator, store repository.Store) (actor, *apperr.Error) {
	res := authn.PersistedUser(ctx)
	if res.IsFailure() {
		return actor{}, res.Err()
	}
	user := res.Value()

	role, err := store.UserRoles().GetByID(ctx, user.RoleID())
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return actor{}, apperr.InternalServer(apperr.CodeServerInternal, err.Error())
	}
	return actor{user: user, role: role}, nil
}

// requireAdmin resolves the actor and refuses anyone but administrators.
func requireAdmin(ctx context.Context, authn Authenticator, store repository.Store) (actor, *apperr.Error) {
	a, appErr := resolveActor(ctx, authn, store)
	if appErr != nil {
		return a, appErr
	}
	if !a.IsAdmin() {
		return a, errForbidden()
	}
	return a, nil
}

// findRole returns the active role with the given name.
func findRole(ctx context.Context, roles repository.UserRoleRepository, name string) (*domain.UserRole, error) {
	all, err := roles.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if r.Name() == name {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

// activeOr loads an entity and reports ErrNotFound when it is soft-deleted.
func activeOr[T domain.Entity](entity T, err error) (T, error) {
	if err != nil {
		return entity, err
	}
	if !entity.IsActive() {
		var zero T
		return zero, repository.ErrNotFound
	}
	return entity, nil
}

// notFoundAs replaces repository.ErrNotFound with a named NotFound failure.
func notFoundAs(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errNotFound(what)
	}
	return err
}

// ignoreNotFound turns a missing target into success for idempotent deletes.
func ignoreNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
