package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmpty = errors.New("password is empty")

// MinLength es el largo mínimo aceptado al registrar.
const MinLength = 6

// MaxBytes: bcrypt no acepta más de 72 bytes.
const MaxBytes = 72

// Hash devuelve el hash bcrypt (string opaco para el resto del sistema).
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Matches compara en tiempo constante. Un hash malformado cuenta como no-match.
func Matches(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
