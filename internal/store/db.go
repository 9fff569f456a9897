package store

import (
	"errors"
	"fmt"

	"fundchain-server/internal/observability"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver registration for sqlx
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a requested row does not exist or a
// conditional update matched nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	db     *sqlx.DB
	logger *observability.Logger
}

func New(connectionString string, logger *observability.Logger) (Store, error) {
	db, err := sqlx.Open("pgx", connectionString)
	if err != nil {
		return Store{}, fmt.Errorf("failed to open database: %w", err)
	}
	return Store{db: db, logger: logger}, nil
}
