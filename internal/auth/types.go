package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// =============================================================================
// Token Types
// =============================================================================

// Claims are the JWT claims of an access token.
// The registered ID (jti) identifies the token for revocation.
type Claims struct {
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Token is an issued access token.
type Token struct {
	// Token is the signed, compact JWT.
	Token string `json:"token"`

	// Expiration is when the token stops being accepted.
	Expiration time.Time `json:"expiration"`

	// Email is the address of the user the token was issued to.
	Email string `json:"email"`
}

// =============================================================================
// Principal
// =============================================================================

// Principal is the authenticated caller of a request.
type Principal struct {
	// UserID is the id of the authenticated user.
	UserID int64

	// TokenID is the jti of the presented token.
	TokenID string

	// ExpiresAt is the expiry of the presented token.
	ExpiresAt time.Time
}
