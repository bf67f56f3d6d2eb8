// Package storage picks the review store backend from configuration.
package storage

import (
	"context"
	"fmt"

	"reviewwise/internal/domain"
	"reviewwise/internal/shared"
	"reviewwise/internal/storage/jsonfile"
	mysqlrepo "reviewwise/internal/storage/mysql"
	"reviewwise/internal/storage/sqlite"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

func Open(ctx context.Context, cfg shared.Config) (domain.ReviewRepository, error) {
	var (
		repo domain.ReviewRepository
		err  error
	)
	switch cfg.StoreBackend {
	case BackendJSON, "":
		repo, err = jsonfile.Open(cfg.JSONPath)
	case BackendSQLite:
		repo, err = sqlite.Open(ctx, cfg.SQLitePath)
	case BackendMySQL:
		repo, err = mysqlrepo.Open(ctx, cfg.MySQLDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, cfg.StoreBackend, err)
	}
	return repo, nil
}
