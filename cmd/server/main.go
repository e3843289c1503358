package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bongo-server/internal/config"
	"bongo-server/internal/domain/account"
	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/domain/generation"
	"bongo-server/internal/domain/meter"
	"bongo-server/internal/infrastructure/auth"
	"bongo-server/internal/infrastructure/database"
	_ "bongo-server/internal/infrastructure/database/dbschema"
	"bongo-server/internal/infrastructure/database/repository/accountrepo"
	"bongo-server/internal/infrastructure/invoker"
	"bongo-server/internal/infrastructure/logger"
	"bongo-server/internal/infrastructure/observability"
	"bongo-server/internal/infrastructure/realtime"
	"bongo-server/internal/infrastructure/storage"
	"bongo-server/internal/infrastructure/store"
	"bongo-server/internal/interfaces/httpserver"
	"bongo-server/internal/interfaces/httpserver/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Account persistence: postgres when configured, in-memory otherwise.
	repo, err := newAccountRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize account store")
	}

	accounts := account.NewService(repo, cfg.SignupBonusTokens, log)
	hub := realtime.NewHub(log)
	m := meter.New(repo, meter.DefaultCosts(), hub, cfg.RefundOnFailure(), log)

	media, err := newMediaStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize media storage")
	}

	registry := catalog.DefaultRegistry()
	resolver := generation.NewResolver(cfg.HomeRegion, cfg.CrossRegion, cfg.CrossRegionMarker, cfg.AltRegion)
	executor := invoker.NewExecutor(cfg.BearerToken, cfg.CandidateTimeout, log)
	normalizer := generation.NewNormalizer(media, log)
	generator := generation.NewService(registry, resolver, executor, m, normalizer, log)

	validator := auth.NewValidator(cfg.SessionTokenSecret)
	handlerProvider := handlers.NewProvider(cfg, generator, m, accounts, hub, log)
	server := httpserver.New(cfg, log, handlerProvider, auth.Middleware(validator, accounts, log))

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("billing_policy", string(cfg.BillingPolicy)).
		Msg("starting application")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Run(groupCtx)
	})
	group.Go(func() error {
		return runMetricsServer(groupCtx, cfg, log)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newAccountRepository(cfg *config.Config, log zerolog.Logger) (account.Repository, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory account store")
		return store.NewMemoryAccountStore(), nil
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migration(db); err != nil {
			return nil, err
		}
	}
	return accountrepo.NewGormAccountRepository(db), nil
}

func newMediaStore(ctx context.Context, cfg *config.Config) (generation.MediaStore, error) {
	switch cfg.MediaStorageBackend {
	case "local":
		return storage.NewLocalStore(cfg.MediaLocalDir, cfg.MediaBaseURL)
	case "s3":
		return storage.NewS3Store(ctx, cfg.MediaS3Bucket, cfg.MediaS3Prefix, cfg.MediaS3PublicURL, cfg.HomeRegion)
	default:
		// Media stays inline as data URIs.
		return nil, nil
	}
}

func runMetricsServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.MetricsAddr(),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr()).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
