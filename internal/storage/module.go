// Package storage selects the persistence backend from the database DSN.
package storage

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/habittracker/internal/config"
	"github.com/polkiloo/habittracker/internal/domain/repository"
	"github.com/polkiloo/habittracker/internal/storage/postgres"
	"github.com/polkiloo/habittracker/internal/storage/sqlite"
)

// SQLiteScheme prefixes DSNs served by the embedded SQLite backend.
const SQLiteScheme = "sqlite://"

// Module wires the selected storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(
		func(s repository.Store) repository.UserRepository { return s.Users() },
		func(s repository.Store) repository.HabitRepository { return s.Habits() },
	),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

var (
	openPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (repository.Store, error) {
		s, err := postgres.New(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	openSQLite = func(ctx context.Context, path string, logger *slog.Logger) (repository.Store, error) {
		s, err := sqlite.Open(ctx, path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
)

// Open connects to the backend named by dsn: "sqlite://<path>" selects
// SQLite, anything else is handed to PostgreSQL.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (repository.Store, error) {
	if path, ok := strings.CutPrefix(dsn, SQLiteScheme); ok {
		return openSQLite(ctx, path, logger)
	}
	return openPostgres(ctx, dsn, logger)
}

func newStore(p storeParams) (repository.Store, error) {
	return Open(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, store repository.Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			store.Close()
			return nil
		},
	})
}
