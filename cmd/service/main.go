// Package main is the entry point for the quotedeck service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/quotedeck/internal/adapters/clients"
	"github.com/jsamuelsen/quotedeck/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotedeck/internal/adapters/dataset"
	"github.com/jsamuelsen/quotedeck/internal/adapters/http"
	"github.com/jsamuelsen/quotedeck/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotedeck/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotedeck/internal/app"
	"github.com/jsamuelsen/quotedeck/internal/platform/config"
	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
	"github.com/jsamuelsen/quotedeck/internal/platform/telemetry"
	"github.com/jsamuelsen/quotedeck/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	acquisitionMetrics, err := telemetry.NewAcquisitionMetrics()
	if err != nil {
		return fmt.Errorf("initializing acquisition metrics: %w", err)
	}

	// 5. Open the quote store (cache and favorites share one database)
	store, err := sqlite.Open(cfg.Cache.Path, cfg.Cache.MaxEntries)
	if err != nil {
		return fmt.Errorf("opening quote store: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	// 6. Load the embedded fallback dataset
	fallbackData := dataset.New(logger)

	// 7. Create the relay fetch client. Retries stay at one attempt per
	// relay; walking the relay chain is the retry mechanism.
	fetchRetry := cfg.Client.Retry
	fetchRetry.MaxAttempts = 1

	fetchClient, err := clients.New(&clients.Config{
		ServiceName: "quote-relays",
		Timeout:     cfg.Fetch.AttemptTimeout,
		Retry:       fetchRetry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating fetch client: %w", err)
	}

	fetcher := acl.NewFetcher(acl.FetcherConfig{
		Client:         fetchClient,
		Target:         cfg.Fetch.Target,
		Relays:         cfg.Fetch.Relays,
		AttemptTimeout: cfg.Fetch.AttemptTimeout,
		Metrics:        acquisitionMetrics,
		Logger:         logger,
	})

	// 8. Create the optional translator
	var translator ports.Translator

	healthCheckers := []ports.HealthChecker{store, fallbackData}

	if cfg.Translation.Enabled {
		translateClient, err := clients.New(&clients.Config{
			BaseURL:     cfg.Translation.BaseURL,
			ServiceName: "translator",
			Timeout:     cfg.Translation.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("creating translation client: %w", err)
		}

		mymemory := acl.NewTranslator(acl.TranslatorConfig{
			Client:     translateClient,
			SourceLang: cfg.Translation.SourceLang,
			APIKey:     cfg.Translation.APIKey,
			Logger:     logger,
		})
		translator = mymemory
		healthCheckers = append(healthCheckers, mymemory)
	}

	// 9. Create application services
	acquirer := app.NewAcquirer(app.AcquirerConfig{
		Fetcher:    fetcher,
		Cache:      store,
		Dataset:    fallbackData,
		Translator: translator,
		TargetLang: cfg.Translation.TargetLang,
		Metrics:    acquisitionMetrics,
		Logger:     logger,
	})

	favorites := app.NewFavoritesService(store, logger)

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(buildInfo, healthCheckers...)
	quoteHandler := handlers.NewQuoteHandler(acquirer, cfg.Cache.MaxEntries)
	favoritesHandler := handlers.NewFavoritesHandler(favorites)

	// 11. Create HTTP server and routes
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:           logger,
		ServiceName:      cfg.App.Name,
		HealthHandler:    healthHandler,
		QuoteHandler:     quoteHandler,
		FavoritesHandler: favoritesHandler,
		Timeout:          http.DefaultRequestTimeout,
	})

	// 12. Start server (non-blocking)
	serverErr := server.Start()

	// 13. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
