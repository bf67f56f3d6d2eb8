package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"reviewwise/internal/adapters/csvsource"
	"reviewwise/internal/adapters/httpsource"
	"reviewwise/internal/adapters/observability"
	redisad "reviewwise/internal/adapters/redis"
	"reviewwise/internal/app"
	"reviewwise/internal/categorize"
	"reviewwise/internal/domain"
	"reviewwise/internal/identity"
	"reviewwise/internal/report"
	"reviewwise/internal/shared"
	"reviewwise/internal/storage"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, domain.ErrNoSources) {
			log.Warn().Str("dir", cfg.DataDir).Str("glob", cfg.SourceGlob).Msg("no CSV files found")
			return
		}
		log.Fatal().Err(err).Msg("ingestion failed")
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("backend", cfg.StoreBackend).
		Int("urls", len(cfg.SourceURLs)).
		Msg("ingestor starting")

	// one ingestion at a time per data dir
	if err := os.MkdirAll(filepath.Dir(cfg.LockPath), 0o755); err != nil {
		return err
	}
	lock := flock.New(cfg.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", cfg.LockPath, err)
	}
	if !locked {
		return fmt.Errorf("another ingestion holds %s", cfg.LockPath)
	}
	defer lock.Unlock()

	sources, err := csvsource.Discover(cfg.DataDir, cfg.SourceGlob)
	if err != nil {
		return err
	}
	if len(cfg.SourceURLs) > 0 {
		sources = append(sources, httpsource.New(cfg.SourceRPS).Sources(cfg.SourceURLs)...)
	}
	if len(sources) == 0 {
		return domain.ErrNoSources
	}

	tax, err := categorize.LoadOrDefault(cfg.TaxonomyFile)
	if err != nil {
		return err
	}

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	names := identity.NewSeeded(seed)

	// the API's cache is only reachable when it is shared (redis)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	ing := app.NewIngestionService(repo, tax, names, cache)
	sum, err := ing.Ingest(ctx, sources)
	observability.ObserveIngest(sum.DuplicatesSkipped, sum.Added)
	if err != nil {
		return err
	}

	return report.Write(os.Stdout, report.Summary(sum))
}
