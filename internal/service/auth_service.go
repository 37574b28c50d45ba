package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// AuthenticationService verifies credentials and resolves the request actor.
type AuthenticationService struct {
	store   repository.Store
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker TokenRevoker
	logger  zerolog.Logger
}

// NewAuthenticationService creates a new AuthenticationService.
func NewAuthenticationService(
	store repository.Store,
	hasher PasswordHasher,
	tokens TokenIssuer,
	revoker TokenRevoker,
	logger zerolog.Logger,
) *AuthenticationService {
	return &AuthenticationService{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger.With().Str("service", "authentication").Logger(),
	}
}

var _ Authenticator = (*AuthenticationService)(nil)

// errAuthFailed does not reveal which half of the credentials was wrong.
func errAuthFailed() *apperr.Error {
	return apperr.Unauthorized(apperr.CodeAuthFailed, "Usuário ou senha inválidos.")
}

// Authenticate checks identifier (email or username) and secret.
func (s *AuthenticationService) Authenticate(ctx context.Context, identifier, secret string) result.Result[*domain.User] {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return result.Failure[*domain.User](errAuthFailed())
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.store.Users().GetByEmail(ctx, identifier)
	} else {
		user, err = s.store.Users().GetByUsername(ctx, identifier)
	}
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug().Str("identifier", identifier).Msg("unknown identifier")
		return result.Failure[*domain.User](errAuthFailed())
	}
	if err != nil {
		return fail[*domain.User](s.logger, "authenticate", err)
	}

	if !s.hasher.VerifyPassword(user.PasswordHash(), secret, user.PasswordSalt()) {
		s.logger.Debug().Int64("user_id", user.ID()).Msg("password mismatch")
		return result.Failure[*domain.User](errAuthFailed())
	}
	if !user.CanAuthenticate() {
		return result.Failure[*domain.User](apperr.Unauthorized(apperr.CodeAuthInactive, "Usuário inativo."))
	}

	return result.Success(user)
}

// Login authenticates and issues an access token.
func (s *AuthenticationService) Login(ctx context.Context, identifier, secret string) result.Result[auth.Token] {
	res := s.Authenticate(ctx, identifier, secret)
	if res.IsFailure() {
		return result.Forward[auth.Token](res)
	}
	user := res.Value()

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return fail[auth.Token](s.logger, "login", err)
	}

	s.logger.Info().Int64("user_id", user.ID()).Msg("user logged in")
	return result.Success(token, "Login realizado com sucesso.")
}

// CurrentUserID returns the id of the authenticated user.
func (s *AuthenticationService) CurrentUserID(ctx context.Context) result.Result[int64] {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return result.Failure[int64](apperr.Unauthorized(apperr.CodeAuthUnauthorized, ""))
	}
	return result.Success(p.UserID)
}

// PersistedUser loads the authenticated user. A deleted or deactivated user
// is no longer an actor.
func (s *AuthenticationService) PersistedUser(ctx context.Context) result.Result[*domain.User] {
	id := s.CurrentUserID(ctx)
	if id.IsFailure() {
		return result.Forward[*domain.User](id)
	}

	user, err := s.store.Users().GetByID(ctx, id.Value())
	if errors.Is(err, repository.ErrNotFound) {
		return result.Failure[*domain.User](apperr.Unauthorized(apperr.CodeAuthUnauthorized, ""))
	}
	if err != nil {
		return fail[*domain.User](s.logger, "persisted user", err)
	}
	if !user.CanAuthenticate() {
		return result.Failure[*domain.User](apperr.Unauthorized(apperr.CodeAuthInactive, "Usuário inativo."))
	}
	return result.Success(user)
}

// Logout revokes the token of the current request.
func (s *AuthenticationService) Logout(ctx context.Context) result.Void {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok {
		return result.Fail(apperr.Unauthorized(apperr.CodeAuthUnauthorized, ""))
	}

	if err := s.revoker.Revoke(ctx, p); err != nil {
		return fail[result.Unit](s.logger, "logout", err)
	}

	s.logger.Info().Int64("user_id", p.UserID).Str("token_id", p.TokenID).Msg("user logged out")
	return result.Ok("Logout realizado com sucesso.")
}
