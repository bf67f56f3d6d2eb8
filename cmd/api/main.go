package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	server "reviewwise/internal/adapters/http_server"
	"reviewwise/internal/adapters/memcache"
	"reviewwise/internal/adapters/observability"
	redisad "reviewwise/internal/adapters/redis"
	"reviewwise/internal/app"
	"reviewwise/internal/categorize"
	"reviewwise/internal/domain"
	"reviewwise/internal/shared"
	"reviewwise/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	tax, err := categorize.LoadOrDefault(cfg.TaxonomyFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.TaxonomyFile).Msg("taxonomy load failed")
	}

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store open failed")
	}
	defer repo.Close()
	log.Info().Str("backend", cfg.StoreBackend).Msg("store ready")

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; requests will go to the store")
		}
		cache = rc
	} else {
		cache = memcache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Tax: tax})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("API shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
