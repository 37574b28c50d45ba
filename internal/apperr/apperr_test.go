package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories_DefaultMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		wantType Type
		wantCode string
	}{
		{"not found", NotFound("", ""), TypeNotFound, CodeNotFound},
		{"validation", Validation("", ""), TypeValidation, CodeInputInvalid},
		{"unauthorized", Unauthorized("", ""), TypeUnauthorized, CodeAuthUnauthorized},
		{"forbidden", Forbidden("", ""), TypeForbidden, CodeAuthForbidden},
		{"conflict", Conflict("", ""), TypeConflict, CodeConflictExists},
		{"business rule", BusinessRuleViolation("", ""), TypeBusinessRuleViolation, CodeBizRule},
		{"internal", InternalServer("", ""), TypeInternalServer, CodeServerInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
			assert.False(t, tt.err.IsNone())
		})
	}
}

func TestFactories_KeepExplicitMessage(t *testing.T) {
	err := Conflict(CodeConflictExists, "Já existe uma conta com este nome.")
	assert.Equal(t, "Já existe uma conta com este nome.", err.Message)
}

func TestNone(t *testing.T) {
	assert.True(t, None().IsNone())
	var nilErr *Error
	assert.True(t, nilErr.IsNone())
}

func TestWithField_DoesNotMutateOriginal(t *testing.T) {
	base := Validation("", "")
	withField := base.WithField("title", "muito curto")

	assert.Nil(t, base.ValidationErrors)
	require.Len(t, withField.ValidationErrors, 1)
	assert.Equal(t, "muito curto", withField.ValidationErrors["title"])

	second := withField.WithField("instructions", "obrigatório")
	assert.Len(t, withField.ValidationErrors, 1)
	assert.Len(t, second.ValidationErrors, 2)
}

func TestIs_MatchesByCode(t *testing.T) {
	err := Forbidden("", "outra mensagem")
	assert.True(t, errors.Is(err, &Error{Code: CodeAuthForbidden}))
	assert.False(t, errors.Is(err, &Error{Code: CodeNotFound}))
}

func TestType_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, TypeValidation.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, TypeBusinessRuleViolation.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, TypeInternalServer.HTTPStatus())
	assert.Equal(t, "Conflict", TypeConflict.String())
}
