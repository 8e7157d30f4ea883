package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"legal-literacy-portal/internal/api"
	"legal-literacy-portal/internal/api/handlers"
	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/internal/domain/services"
	"legal-literacy-portal/internal/domain/services/ai"
	"legal-literacy-portal/internal/domain/services/rules"
	"legal-literacy-portal/internal/grpc/health"
	"legal-literacy-portal/internal/infrastructure/cache"
	"legal-literacy-portal/internal/infrastructure/database"
	"legal-literacy-portal/internal/infrastructure/database/repository"
	"legal-literacy-portal/internal/infrastructure/extract"
	"legal-literacy-portal/internal/infrastructure/lenders"
	"legal-literacy-portal/internal/infrastructure/storage"
	"legal-literacy-portal/internal/metrics"
	"legal-literacy-portal/internal/streaming"
	"legal-literacy-portal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.New(logger.Config{
			Level:      cfg.Logger.Level,
			Format:     cfg.Logger.Format,
			TimeFormat: cfg.Logger.TimeFormat,
		})
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting legal literacy portal")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	infra, err := initInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize infrastructure")
	}
	defer infra.Close()

	m := metrics.New()

	h, err := initHandlers(cfg, infra, m, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize services")
	}

	router := api.NewRouter(*cfg, h, infra.redis, m, log)

	// HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// gRPC health server
	grpcServer := grpc.NewServer()
	monitor := health.NewMonitor(infra.grpcChecks(), 15*time.Second, log)
	monitor.Register(grpcServer)
	go monitor.Run(ctx)

	grpcAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", grpcAddr).Msg("failed to listen for gRPC")
	}
	go func() {
		log.Info().Str("addr", grpcAddr).Msg("starting gRPC server")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down servers...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	log.Info().Msg("servers stopped")
}

// infrastructure holds the external dependencies selected by configuration
type infrastructure struct {
	sqlite   *database.SQLiteDB
	postgres *database.PostgresDB
	redis    *cache.RedisCache
	minio    *storage.MinioStore
	nats     *streaming.NATSPublisher

	repo  services.QueryRepository
	files services.FileStore
}

func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*infrastructure, error) {
	infra := &infrastructure{}

	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		infra.postgres = db
		if err := database.MigratePostgres(ctx, db, log); err != nil {
			infra.Close()
			return nil, err
		}
		infra.repo = repository.NewPostgresQueryRepository(db)
	case "", "sqlite":
		db, err := database.NewSQLite(ctx, cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		infra.sqlite = db
		if err := database.MigrateSQLite(ctx, db, log); err != nil {
			infra.Close()
			return nil, err
		}
		infra.repo = repository.NewSQLiteQueryRepository(db)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Redis is optional; sessions and rate limits fall back to process memory
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, using in-memory sessions")
		} else {
			infra.redis = redisCache
		}
	}

	if cfg.Minio.Enabled {
		store, err := storage.NewMinioStore(ctx, cfg.Minio, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MinIO, storing attachments locally")
		} else {
			infra.minio = store
			infra.files = store
		}
	}
	if infra.files == nil {
		store, err := storage.NewLocalStore(cfg.Uploads.LocalDir, log)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("failed to prepare upload directory: %w", err)
		}
		infra.files = store
	}

	if cfg.NATS.Enabled {
		publisher, err := streaming.NewNATSPublisher(ctx, cfg.NATS, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, query events disabled")
		} else {
			infra.nats = publisher
		}
	}

	return infra, nil
}

// checks lists every configured dependency for readiness reporting
func (i *infrastructure) checks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if i.sqlite != nil {
		checks["sqlite"] = i.sqlite
	}
	if i.postgres != nil {
		checks["postgres"] = i.postgres
	}
	if i.redis != nil {
		checks["redis"] = i.redis
	}
	if i.minio != nil {
		checks["minio"] = i.minio
	}
	if i.nats != nil {
		checks["nats"] = i.nats
	}
	return checks
}

func (i *infrastructure) grpcChecks() map[string]health.Pinger {
	checks := make(map[string]health.Pinger)
	for name, p := range i.checks() {
		checks[name] = p
	}
	return checks
}

func (i *infrastructure) Close() {
	if i.nats != nil {
		i.nats.Close()
	}
	if i.redis != nil {
		i.redis.Close()
	}
	if i.postgres != nil {
		i.postgres.Close()
	}
	if i.sqlite != nil {
		i.sqlite.Close()
	}
}

func initHandlers(cfg *config.Config, infra *infrastructure, m *metrics.Metrics, log *logger.Logger) (*handlers.Handlers, error) {
	overrides, err := rules.LoadOverrides(cfg.Rules.LexiconFile)
	if err != nil {
		return nil, err
	}

	registry := lenders.NewRegistry()

	fraud, err := services.NewFraudChecker(overrides, log)
	if err != nil {
		return nil, err
	}
	loans, err := services.NewLoanAnalyzer(registry, overrides, log)
	if err != nil {
		return nil, err
	}

	// The model endpoint is optional; without it summaries are extractive and images are rejected
	var completer services.Completer
	var images extract.ImageTextExtractor
	if cfg.OpenAI.Enabled() {
		llm := ai.NewLLMClient(ai.LLMConfig{
			APIKey:      cfg.OpenAI.APIKey,
			BaseURL:     cfg.OpenAI.BaseURL,
			Model:       cfg.OpenAI.Model,
			VisionModel: cfg.OpenAI.VisionModel,
			Timeout:     cfg.OpenAI.Timeout,
		}, log)
		completer = llm
		images = llm
		log.Info().Str("model", cfg.OpenAI.Model).Msg("LLM client initialized")
	}

	extractor := extract.NewExtractor(cfg.Uploads, images, m, log)

	var sessions services.SessionStore
	if infra.redis != nil {
		sessions = cache.NewSessionStore(infra.redis, cfg.Redis.SessionTTL)
	} else {
		sessions = services.NewMemorySessionStore(cfg.Redis.SessionTTL)
	}

	var events services.EventPublisher
	if infra.nats != nil {
		events = infra.nats
	}

	return handlers.NewHandlers(handlers.Dependencies{
		FraudChecker: fraud,
		LoanAnalyzer: loans,
		Lenders:      registry,
		Summarizer:   services.NewSummarizer(completer, log),
		Extractor:    extractor,
		Wizard:       services.NewWizardService(sessions, log),
		Queries:      services.NewQueryService(infra.repo, infra.files, events, extractor, log),
		Rights:       services.NewRightsCatalog(),
		Metrics:      m,
		Checks:       infra.checks(),
		Version:      cfg.App.Version,
		Logger:       log,
	}), nil
}
