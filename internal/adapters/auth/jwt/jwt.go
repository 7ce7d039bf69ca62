package jwt

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-diary/internal/ports/auth"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	issuer   = "pet-diary"
	audience = "pet-diary-api"
)

var (
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotConfigured = errors.New("jwt secret not configured")
)

type claims struct {
	jwtlib.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// Service firma y verifica tokens HS256. Implementa auth.TokenIssuer y
// auth.AuthVerifier con el mismo secreto.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *Service) Issue(ctx context.Context, c auth.Claims) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	if strings.TrimSpace(c.UserID) == "" {
		return "", time.Time{}, errors.New("claims missing user id")
	}

	now := s.now()
	exp := now.Add(s.ttl)

	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   c.UserID,
			Audience:  jwtlib.ClaimStrings{audience},
			ExpiresAt: jwtlib.NewNumericDate(exp),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
		Email:    c.Email,
		Username: c.Username,
	})

	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if len(s.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwtlib.ParseWithClaims(token, &claims{}, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwtlib.WithIssuer(issuer),
		jwtlib.WithAudience(audience),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		return auth.Claims{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{UserID: c.Subject, Email: c.Email, Username: c.Username}, nil
}
