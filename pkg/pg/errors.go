package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotConfigured = errors.New("pg: DATABASE_URL is not set")
	ErrInvalidConfig = errors.New("pg: invalid connection string")
	ErrConnect       = errors.New("pg: could not connect")
	ErrUnavailable   = errors.New("pg: database unavailable")
	ErrMigrate       = errors.New("pg: migration failed")
)

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
