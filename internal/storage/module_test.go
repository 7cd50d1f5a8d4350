package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/habittracker/internal/config"
	"github.com/polkiloo/habittracker/internal/domain/repository"
	"github.com/polkiloo/habittracker/internal/storage/sqlite"
)

type storeStub struct {
	repository.Store
	closed int
}

func (s *storeStub) Close() { s.closed++ }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOpenSelectsBackendByScheme(t *testing.T) {
	origPG, origLite := openPostgres, openSQLite
	t.Cleanup(func() { openPostgres, openSQLite = origPG, origLite })

	var gotPG, gotLite string
	openPostgres = func(_ context.Context, dsn string, _ *slog.Logger) (repository.Store, error) {
		gotPG = dsn
		return &storeStub{}, nil
	}
	openSQLite = func(_ context.Context, path string, _ *slog.Logger) (repository.Store, error) {
		gotLite = path
		return &storeStub{}, nil
	}

	cases := []struct {
		dsn      string
		wantPG   string
		wantLite string
	}{
		{dsn: "postgres://u:p@localhost/db", wantPG: "postgres://u:p@localhost/db"},
		{dsn: "host=localhost dbname=db", wantPG: "host=localhost dbname=db"},
		{dsn: "sqlite://./habits.db", wantLite: "./habits.db"},
		{dsn: "sqlite://:memory:", wantLite: ":memory:"},
	}
	for _, tc := range cases {
		gotPG, gotLite = "", ""
		if _, err := Open(context.Background(), tc.dsn, discardLogger()); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.dsn, err)
		}
		if gotPG != tc.wantPG || gotLite != tc.wantLite {
			t.Fatalf("%s: routed to pg=%q sqlite=%q", tc.dsn, gotPG, gotLite)
		}
	}
}

func TestNewStoreOpensInMemorySQLite(t *testing.T) {
	store, err := newStore(storeParams{
		Ctx:    context.Background(),
		Config: &config.Config{DatabaseURI: SQLiteScheme + sqlite.MemoryPath},
		Logger: discardLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*sqlite.Storage); !ok {
		t.Fatalf("expected sqlite storage, got %T", store)
	}
	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check: %v", err)
	}
}

func TestRegisterLifecycleClosesStore(t *testing.T) {
	store := &storeStub{}
	lc := fxtest.NewLifecycle(t)
	registerLifecycle(lc, store)

	if err := lc.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := lc.Stop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if store.closed != 1 {
		t.Fatalf("expected store to be closed once, got %d", store.closed)
	}
}
