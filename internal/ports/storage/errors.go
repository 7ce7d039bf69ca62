// Package storage define el vocabulario de errores que comparten todos los
// adapters de persistencia (mongo, postgres, memory).
package storage

import "errors"

var (
	// ErrNotFound: el documento no existe o no coincide el owner.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey: violación de un índice único (p.ej. users.email).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrConnection: la base no responde (server selection, red, ping).
	ErrConnection = errors.New("database unavailable")
)
