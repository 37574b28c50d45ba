// Package auth issues and verifies bearer access tokens for recipebook.
// Tokens are HS256-signed JWTs carrying the user id; logout revokes a token
// by recording its id in the shared cache until the token would expire.
package auth

import "time"

// =============================================================================
// Constants
// =============================================================================

const (
	// AuthorizationHeader is the HTTP header for authorization.
	AuthorizationHeader = "Authorization"

	// BearerScheme prefixes the token in the Authorization header.
	BearerScheme = "Bearer"

	// DefaultIssuer is written to the iss claim when none is configured.
	DefaultIssuer = "recipebook"

	// DefaultTokenTTL is the token lifetime when none is configured.
	DefaultTokenTTL = 24 * time.Hour

	// MaxClockSkew is the leeway allowed when validating time-based claims.
	MaxClockSkew = 30 * time.Second
)

// contextKey is the type for context keys set by this package.
type contextKey string

// PrincipalContextKey is the context key for the authenticated principal.
const PrincipalContextKey contextKey = "auth_principal"
