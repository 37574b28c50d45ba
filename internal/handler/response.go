package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/result"
)

// envelope wraps every successful response body.
type envelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON writes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFailure renders a failure as {"code","message","errors"} with the
// status of its type.
func (rt *Router) writeFailure(w http.ResponseWriter, r *http.Request, appErr *apperr.Error) {
	rt.metrics.ObserveFailure(appErr.Code)

	event := zerolog.Ctx(r.Context()).Debug()
	if appErr.Type == apperr.TypeInternalServer {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Str("code", appErr.Code).Str("path", r.URL.Path).Msg(appErr.Message)

	writeJSON(w, appErr.Type.HTTPStatus(), appErr)
}

// respond writes a service outcome. render converts the value into its wire
// form; a nil render omits the data field.
func respond[T any](rt *Router, w http.ResponseWriter, r *http.Request, status int, res result.Result[T], render func(T) any) {
	if res.IsFailure() {
		rt.writeFailure(w, r, res.Err())
		return
	}

	body := envelope{Message: res.Message()}
	if render != nil {
		body.Data = render(res.Value())
	}
	writeJSON(w, status, body)
}

// renderList applies render to every element.
func renderList[T any](render func(T) any) func([]T) any {
	return func(items []T) any {
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, render(item))
		}
		return out
	}
}

// =============================================================================
// Request decoding
// =============================================================================

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates its tags.
func (rt *Router) decode(w http.ResponseWriter, r *http.Request, dst any) *apperr.Error {
	if rt.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.maxBodySize)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.Validation(apperr.CodeInputInvalid, "O corpo da requisição é grande demais.")
		}
		return apperr.Validation(apperr.CodeInputInvalid, "O corpo da requisição não é um JSON válido.")
	}

	if err := validate.Struct(dst); err != nil {
		return validationFailure(err)
	}
	return nil
}

// validationFailure converts validator errors into a field-keyed failure.
func validationFailure(err error) *apperr.Error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Validation(apperr.CodeInputInvalid, "")
	}

	appErr := apperr.Validation(apperr.CodeInputInvalid, "")
	for _, fe := range fieldErrs {
		appErr = appErr.WithField(fe.Field(), fieldMessage(fe))
	}
	return appErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "Informe um e-mail válido."
	case "min":
		return fmt.Sprintf("Deve ter no mínimo %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Deve ter no máximo %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Deve ser maior que %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Deve ser maior ou igual a %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Deve ser menor ou igual a %s.", fe.Param())
	case "oneof":
		return "Use um de: " + fe.Param() + "."
	default:
		return "Valor inválido."
	}
}

// idParam parses a positive int64 URL parameter.
func idParam(r *http.Request, name string) (int64, *apperr.Error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationField(name, "Identificador inválido.")
	}
	return id, nil
}
