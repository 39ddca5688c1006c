// Package database persists finished deal results. Postgres (pgx) backs a
// deployed server; SQLite (modernc, no CGO) backs local and offline play.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
)

// ResultStore records deal outcomes.
type ResultStore interface {
	SaveResult(ctx context.Context, res models.GameResult) error
	Results(ctx context.Context, gameID uuid.UUID) ([]models.GameResult, error)
	Close() error
}

// ErrUnknownScheme is returned by Open for a DSN it cannot route.
var ErrUnknownScheme = errors.New("database: unknown dsn scheme")

// Open selects a store from the DSN scheme:
//
//	postgres://..., postgresql://...  -> PostgresStore
//	sqlite://<path>, *.db, *.sqlite   -> SQLiteStore
func Open(ctx context.Context, dsn string) (ResultStore, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return OpenSQLite(ctx, dsn)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, dsn)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
