package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkText trims the value and checks its length in runes.
func checkText(field, value string, min, max int) (string, error) {
	value = strings.TrimSpace(value)
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0 && min > 0:
		return "", invalid(field, "Campo obrigatório.")
	case n < min:
		return "", invalid(field, fmt.Sprintf("Deve ter pelo menos %d caracteres.", min))
	case max > 0 && n > max:
		return "", invalid(field, fmt.Sprintf("Deve ter no máximo %d caracteres.", max))
	}
	return value, nil
}

func checkID(field string, id int64) error {
	if id <= 0 {
		return invalid(field, "Deve ser um identificador válido.")
	}
	return nil
}

func checkEmail(field, value string) (string, error) {
	value, err := checkText(field, value, 1, 255)
	if err != nil {
		return "", err
	}
	if err := validate.Var(value, "email"); err != nil {
		return "", invalid(field, "Endereço de e-mail inválido.")
	}
	return strings.ToLower(value), nil
}
