package auth

import (
	"context"
	"time"
)

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite un token firmado para las claims dadas (login/signup).
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (token string, expiresAt time.Time, err error)
}
