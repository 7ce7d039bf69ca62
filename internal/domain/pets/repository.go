package pets

import (
	"context"
	"time"
)

// Repository: todas las operaciones sobre un pet existente filtran por
// (id, ownerID) en la misma query. Si no matchea => storage.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetForOwner(ctx context.Context, id, ownerID string) (Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
	UpdateForOwner(ctx context.Context, id, ownerID string, patch Patch, updatedAt time.Time) (Pet, error)

	// DeleteForOwner es idempotente: deleted=false y err=nil si no había nada.
	DeleteForOwner(ctx context.Context, id, ownerID string) (deleted bool, err error)
}
