package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"pet-diary/internal/ports/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrDuplicateKey)
		}
		// clase 08: connection exception
		if strings.HasPrefix(pgErr.Code, "08") {
			return fmt.Errorf("%s: %w: %v", op, storage.ErrConnection, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w: %v", op, storage.ErrConnection, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
