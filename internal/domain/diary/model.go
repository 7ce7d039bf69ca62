package diary

import "time"

// Post es una entrada del diario de una mascota.
// OwnerID está denormalizado: siempre es el owner del pet al momento de crear.
type Post struct {
	ID      string
	PetID   string
	OwnerID string

	Title       string
	Description string

	// Referencia opaca a la foto (URL o path); vacío = sin foto.
	PhotoURL string

	CreatedAt time.Time
	IsPublic  bool
}
