package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// Common service failures. Each call returns a fresh value so callers may
// attach fields without affecting others.
func errNotFound(what string) *apperr.Error {
	return apperr.NotFound(apperr.CodeNotFound, what+" não encontrado(a).")
}

func errForbidden() *apperr.Error {
	return apperr.Forbidden(apperr.CodeAuthForbidden, "")
}

func errDependencies(message string) *apperr.Error {
	return apperr.BusinessRuleViolation(apperr.CodeBizDependencies, message)
}

func errExists(field, message string) *apperr.Error {
	return apperr.Conflict(apperr.CodeConflictExists, message).WithField(field, message)
}

// toAppError maps any error raised while serving op onto the error taxonomy.
//
//   - *apperr.Error passes through unchanged.
//   - *domain.ValidationError becomes Validation with the field attached.
//   - *domain.OperationError becomes BusinessRuleViolation (Biz.InvalidOperation).
//   - repository.ErrNotFound, ErrDuplicate and ErrForeignKey map to NotFound,
//     Conflict and DB.FKViolation.
//   - anything else is InternalServer carrying the original text.
func toAppError(logger zerolog.Logger, op string, err error) *apperr.Error {
	var (
		appErr *apperr.Error
		vErr   *domain.ValidationError
		oErr   *domain.OperationError
	)

	switch {
	case errors.As(err, &appErr):
		logger.Debug().Str("op", op).Str("code", appErr.Code).Msg(appErr.Message)
		return appErr

	case errors.As(err, &vErr):
		logger.Debug().Str("op", op).Str("field", vErr.Field).Msg("validation failed")
		return apperr.ValidationField(vErr.Field, vErr.Message)

	case errors.As(err, &oErr):
		logger.Debug().Str("op", op).Str("refused", oErr.Op).Msg("operation refused")
		return apperr.BusinessRuleViolation(apperr.CodeBizInvalidOperation, oErr.Message)

	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(apperr.CodeNotFound, "")

	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict(apperr.CodeConflictExists, "")

	case errors.Is(err, repository.ErrForeignKey):
		logger.Warn().Err(err).Str("op", op).Msg("foreign key violation")
		return apperr.BusinessRuleViolation(apperr.CodeDBFKViolation, "O registro referenciado não existe.")

	default:
		logger.Error().Err(err).Str("op", op).Msg("operation failed")
		return apperr.InternalServer(apperr.CodeServerInternal, err.Error())
	}
}

// fail wraps toAppError into a typed failure.
func fail[T any](logger zerolog.Logger, op string, err error) result.Result[T] {
	return result.Failure[T](toAppError(logger, op, err))
}
