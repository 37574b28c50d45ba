package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/repository"
)

// Verifier validates bearer tokens and checks them against the revocation list.
type Verifier struct {
	issuer *TokenIssuer
	cache  repository.Cache
	logger zerolog.Logger
}

// NewVerifier creates a Verifier.
func NewVerifier(issuer *TokenIssuer, cache repository.Cache, logger zerolog.Logger) *Verifier {
	return &Verifier{
		issuer: issuer,
		cache:  cache,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Verify parses token and returns the principal it identifies.
func (v *Verifier) Verify(ctx context.Context, token string) (Principal, error) {
	claims, err := v.issuer.Parse(token)
	if err != nil {
		return Principal{}, err
	}

	revoked, err := v.cache.Exists(ctx, repository.RevokedTokenKey(claims.ID))
	if err != nil {
		// Revocation is best effort while the cache is down.
		v.logger.Warn().Err(err).Str("token_id", claims.ID).Msg("revocation check unavailable")
	} else if revoked {
		return Principal{}, ErrTokenRevoked
	}

	return Principal{
		UserID:    claims.UserID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke records the principal's token as logged out until it expires.
// Already expired tokens need no record.
func (v *Verifier) Revoke(ctx context.Context, p Principal) error {
	ttl := time.Until(p.ExpiresAt) + MaxClockSkew
	if ttl <= 0 || p.TokenID == "" {
		return nil
	}
	return v.cache.Set(ctx, repository.RevokedTokenKey(p.TokenID), []byte("1"), ttl)
}

// Middleware authenticates requests that carry a bearer token.
// Requests without a token pass through anonymously; services decide whether
// an actor is required. A present but invalid token is rejected with 401.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := TokenFromRequest(r)
			if errors.Is(err, ErrMissingToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeAuthError(w, err)
				return
			}

			principal, err := v.Verify(r.Context(), token)
			if err != nil {
				v.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("bearer authentication failed")
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			writeAuthError(w, ErrMissingToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeAuthError writes the JSON failure body used across the API.
func writeAuthError(w http.ResponseWriter, err error) {
	appErr := ToAppError(err)
	writeError(w, appErr)
}

func writeError(w http.ResponseWriter, appErr *apperr.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", BearerScheme)
	w.WriteHeader(appErr.Type.HTTPStatus())
	_ = json.NewEncoder(w).Encode(appErr)
}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

// PrincipalFrom retrieves the authenticated principal from a context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(Principal)
	return p, ok && p.UserID > 0
}
