package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"reviewwise/internal/domain"
	"reviewwise/internal/shared"
	"reviewwise/internal/storage/jsonfile"
	"reviewwise/internal/storage/sqlite"
)

func TestOpen_SelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := shared.Config{
		JSONPath:   filepath.Join(dir, "reviews.json"),
		SQLitePath: filepath.Join(dir, "reviews.db"),
	}
	ctx := context.Background()

	cfg.StoreBackend = "json"
	repo, err := Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.(*jsonfile.Store); !ok {
		t.Fatalf("want json store, got %T", repo)
	}
	_ = repo.Close()

	cfg.StoreBackend = "sqlite"
	repo, err = Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := repo.(*sqlite.Store); !ok {
		t.Fatalf("want sqlite store, got %T", repo)
	}
	_ = repo.Close()
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, shared.Config{StoreBackend: "csv"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg := shared.Config{StoreBackend: "mysql", MySQLDSN: "not a dsn"}
	_, err := Open(ctx, cfg)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}
