package auth

import (
	"net/http"
	"strings"
)

// ParseBearer extracts the token from an Authorization header value.
// Returns ErrMissingToken when the header is empty.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) {
		return "", ErrInvalidAuthorizationHeader
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.Count(token, ".") != 2 {
		return "", ErrInvalidAuthorizationHeader
	}
	return token, nil
}

// TokenFromRequest extracts the bearer token from a request.
func TokenFromRequest(r *http.Request) (string, error) {
	return ParseBearer(r.Header.Get(AuthorizationHeader))
}
