package mongodb

import (
	"errors"
	"fmt"

	"pet-diary/internal/ports/storage"

	"go.mongodb.org/mongo-driver/mongo"
)

// mapErr traduce errores del driver al vocabulario de ports/storage.
// Lo que no reconoce lo devuelve tal cual.
func mapErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicateKey)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %v", op, storage.ErrConnection, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
