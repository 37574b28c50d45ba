package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/cache/memory"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.UserDetails{
		Name:         "Ana Souza",
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		PasswordSalt: "salt",
		RoleID:       1,
		AccountID:    1,
	})
	require.NoError(t, err)
	u.SetID(7)
	return u
}

func newTestVerifier(t *testing.T) (*TokenIssuer, *Verifier) {
	t.Helper()
	issuer := NewTokenIssuer(config.AuthConfig{TokenSecret: testSecret, TokenTTL: time.Hour})
	cache := memory.NewCache(time.Hour)
	t.Cleanup(cache.Stop)
	return issuer, NewVerifier(issuer, cache, zerolog.Nop())
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"empty", "", "", ErrMissingToken},
		{"valid", "Bearer a.b.c", "a.b.c", nil},
		{"lowercase scheme", "bearer a.b.c", "a.b.c", nil},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", ErrInvalidAuthorizationHeader},
		{"not a jwt", "Bearer token", "", ErrInvalidAuthorizationHeader},
		{"no token", "Bearer", "", ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, _ := newTestVerifier(t)
	user := testUser(t)

	tok, err := issuer.GenerateToken(user)
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", tok.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiration, 5*time.Second)

	claims, err := issuer.Parse(tok.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, DefaultIssuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer, _ := newTestVerifier(t)
	user := testUser(t)

	t.Run("unsaved user", func(t *testing.T) {
		u, err := domain.NewUser(domain.UserDetails{
			Name: "Bia Lima", Username: "bia", Email: "bia@example.com",
			PasswordHash: "h", PasswordSalt: "s", RoleID: 1, AccountID: 1,
		})
		require.NoError(t, err)
		_, err = issuer.GenerateToken(u)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenIssuer(config.AuthConfig{TokenSecret: testSecret, TokenTTL: time.Minute})
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		tok, err := past.GenerateToken(user)
		require.NoError(t, err)

		_, err = issuer.Parse(tok.Token)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer(config.AuthConfig{TokenSecret: strings.Repeat("x", 32)})
		tok, err := other.GenerateToken(user)
		require.NoError(t, err)

		_, err = issuer.Parse(tok.Token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := &Claims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{
			ID:        "x",
			Issuer:    DefaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.Parse(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifier_Revoke(t *testing.T) {
	ctx := context.Background()
	issuer, v := newTestVerifier(t)

	tok, err := issuer.GenerateToken(testUser(t))
	require.NoError(t, err)

	p, err := v.Verify(ctx, tok.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.UserID)

	require.NoError(t, v.Revoke(ctx, p))

	_, err = v.Verify(ctx, tok.Token)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestMiddleware(t *testing.T) {
	issuer, v := newTestVerifier(t)
	tok, err := issuer.GenerateToken(testUser(t))
	require.NoError(t, err)

	var seen int64
	handler := Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFrom(r.Context())
		seen = p.UserID
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   int64
	}{
		{"anonymous", "", http.StatusNoContent, 0},
		{"valid token", "Bearer " + tok.Token, http.StatusNoContent, 7},
		{"malformed header", "Token abc", http.StatusUnauthorized, 0},
		{"tampered token", "Bearer " + tok.Token + "x", http.StatusUnauthorized, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeader, tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantUser, seen)
			if rec.Code == http.StatusUnauthorized {
				require.Contains(t, rec.Body.String(), `"code":"Auth.`)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me/settings", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/settings", nil)
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: 3}))
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
