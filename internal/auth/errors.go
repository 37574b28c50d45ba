package auth

import (
	"errors"

	"github.com/prn-tf/recipebook/internal/apperr"
)

// Authentication errors.
var (
	// ErrMissingToken indicates the request carries no bearer token.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrInvalidAuthorizationHeader indicates the Authorization header is malformed.
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrInvalidToken indicates the token failed signature or claim validation.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("access token has expired")

	// ErrTokenRevoked indicates the token was logged out.
	ErrTokenRevoked = errors.New("access token has been revoked")
)

// ToAppError converts an authentication error into the error taxonomy.
// Every authentication failure is Unauthorized; only the code differs.
func ToAppError(err error) *apperr.Error {
	switch {
	case errors.Is(err, ErrMissingToken):
		return apperr.Unauthorized(apperr.CodeAuthUnauthorized, "")
	case errors.Is(err, ErrTokenExpired):
		return apperr.Unauthorized(apperr.CodeAuthTokenInvalid, "Sua sessão expirou. Faça login novamente.")
	case errors.Is(err, ErrTokenRevoked):
		return apperr.Unauthorized(apperr.CodeAuthTokenInvalid, "Sua sessão foi encerrada. Faça login novamente.")
	default:
		return apperr.Unauthorized(apperr.CodeAuthTokenInvalid, "Token de acesso inválido.")
	}
}
