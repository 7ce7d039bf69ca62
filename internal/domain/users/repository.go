package users

import (
	"context"
	"time"
)

// Repository: Create devuelve storage.ErrDuplicateKey si el email ya existe;
// los Get devuelven storage.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch, updatedAt time.Time) (User, error)
}
