package apperr

// Stable, hierarchical failure codes.
const (
	CodeNone = "None"

	// Authentication and authorization.
	CodeAuthFailed       = "Auth.Failed"
	CodeAuthUnauthorized = "Auth.Unauthorized"
	CodeAuthForbidden    = "Auth.Forbidden"
	CodeAuthInactive     = "Auth.Inactive"
	CodeAuthTokenInvalid = "Auth.TokenInvalid"

	// Input.
	CodeInputInvalid = "Input.Invalid"

	// Resources.
	CodeNotFound       = "Resource.NotFound"
	CodeConflictExists = "Conflict.Exists"

	// Business rules.
	CodeBizDependencies     = "Biz.Dependencies"
	CodeBizInvalidOperation = "Biz.InvalidOperation"
	CodeBizRule             = "Biz.Rule"

	// Storage.
	CodeDBFKViolation = "DB.FKViolation"

	// Server.
	CodeServerInternal = "Server.Internal"
)
