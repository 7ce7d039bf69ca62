// Package validation agrupa las reglas de esquema de users/pets/diary_posts.
// Son funciones explícitas que devuelven *FieldError; nada de reflection.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// Mismo patrón que el validator $jsonSchema de la colección users.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

var emailRE = regexp.MustCompile(EmailPattern)

// FieldError describe qué campo falló y por qué.
// errors.Is(err, ErrInvalidInput) es true para cualquier FieldError.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return "invalid input: " + e.Field + " " + e.Reason
}

func (e *FieldError) Unwrap() error { return ErrInvalidInput }

func Invalid(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// Required falla si value está vacío después de TrimSpace.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid(field, "is required")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email valida presencia y formato. Se espera el valor ya normalizado.
func Email(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	if !emailRE.MatchString(value) {
		return Invalid(field, "must be a valid email address")
	}
	return nil
}

// First devuelve el primer error no nil.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
