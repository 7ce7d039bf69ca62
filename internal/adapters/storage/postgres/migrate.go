package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// statements separa schema.sql por ";" final de línea. Todas son IF NOT EXISTS.
func statements() []string {
	parts := strings.Split(schemaSQL, ";\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), ";"))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Migrate crea tablas e índices en una transacción. Idempotente.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return mapErr("migrate begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return mapErr(fmt.Sprintf("migrate statement %d", i+1), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mapErr("migrate commit", err)
	}
	return nil
}
