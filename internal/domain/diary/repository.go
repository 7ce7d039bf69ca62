package diary

import "context"

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)

	// ListForPet filtra por (petID, ownerID), ordena por created_at desc y
	// corta en limit (ya normalizado).
	ListForPet(ctx context.Context, petID, ownerID string, limit int) ([]Post, error)

	// Idempotentes: sin match no es error.
	DeleteForOwner(ctx context.Context, id, ownerID string) (deleted bool, err error)
	DeleteForPet(ctx context.Context, petID, ownerID string) (n int64, err error)
}

// NormalizeLimit: <=0 => DefaultLimit, >MaxLimit => MaxLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
