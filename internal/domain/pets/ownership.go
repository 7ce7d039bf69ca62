package pets

import "context"

// OwnerDirectory evita importar el paquete users (rompe ciclos).
// Se usa para exigir que el owner exista al crear una mascota.
type OwnerDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// PostCleaner borra los posts del diario de una mascota eliminada.
// Lo implementa diary.Service; diary ya importa pets, así que va por interfaz.
type PostCleaner interface {
	DeleteForPet(ctx context.Context, petID, ownerID string) error
}
