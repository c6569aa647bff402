package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/feed-service/config"
	"github.com/kosarica/feed-service/internal/aggregator"
	"github.com/kosarica/feed-service/internal/database"
	"github.com/kosarica/feed-service/internal/exporter"
	"github.com/kosarica/feed-service/internal/fetch"
	"github.com/kosarica/feed-service/internal/handlers"
	"github.com/kosarica/feed-service/internal/middleware"
	"github.com/kosarica/feed-service/internal/pipeline"
	"github.com/kosarica/feed-service/internal/storage"
	"github.com/kosarica/feed-service/internal/telemetry"
	"github.com/kosarica/feed-service/internal/types"
)

var version = "dev"

// @title Feed Service API
// @version 1.0
// @description Internal API for feed mapping, catalog aggregation and YML export.
// @BasePath /
// @securityDefinitions.apikey InternalAPIKey
// @in header
// @name X-Internal-API-Key
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)
	log.Logger = *logger

	logger.Info().Str("version", version).Msg("Starting feed service")

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Telemetry.Environment,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	// The catalog store is optional; without it the aggregate and export
	// endpoints work on request bodies only.
	var catalog *database.CatalogStore
	if dbURL := config.GetDatabaseURL(); dbURL != "" {
		catalog, err = database.Open(ctx, dbURL, poolOptions(cfg.Database))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open catalog database")
		}
		defer database.Close()
		logger.Info().Msg("Database connected")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, catalog persistence disabled")
	}

	store, err := storage.Open(storage.StorageType(cfg.Storage.Type), cfg.Storage.BasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open storage")
	}
	mappings := storage.NewMappingRepository(store)

	importer := &pipeline.Pipeline{
		Mappings: mappings,
		Archive:  store,
		Logger:   *logger,
	}
	h := &handlers.Handler{
		Sessions: handlers.NewSessionStore(cfg.Server.SessionTTL),
		Mappings: mappings,
		Importer: importer,
		Archive:  store,
		Exporter: exporter.New(exporter.Options{
			PlaceholderImage: cfg.Export.PlaceholderImage,
			DefaultCurrency:  cfg.Export.DefaultCurrency,
		}),
		Shop: exporter.ShopData{
			Name:              cfg.Export.ShopName,
			Company:           cfg.Export.ShopCompany,
			URL:               cfg.Export.ShopURL,
			LocalDeliveryCost: types.FlexFloat(cfg.Export.DeliveryCost),
		},
		CatalogOptions: exporter.CatalogOptions{StrictParents: cfg.Export.StrictParents},
		Aggregation: aggregator.Options{
			ChunkSize:  cfg.Aggregation.ChunkSize,
			MaxWorkers: cfg.Aggregation.MaxWorkers,
			Logger:     logger,
		},
		MaxUploadSize: cfg.Server.MaxUploadSize,
		Logger:        *logger,
	}
	if catalog != nil {
		importer.Catalog = catalog
		h.Catalog = catalog
		h.Runs = catalog
	}
	if cfg.Fetch.Enabled {
		h.Fetcher = fetch.NewClient(cfg.Fetch.ClientConfig(), *logger)
	}

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	go sweepSessions(sweepCtx, h.Sessions, logger, time.Minute)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(*logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDocs(router)

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Auth.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		internal.GET("/health", handlers.HealthCheck)
		h.Register(internal)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

func poolOptions(cfg config.DatabaseConfig) database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        cfg.MaxConnections,
		MinConns:        cfg.MinConnections,
		MaxConnLifetime: cfg.MaxConnLifetime,
		MaxConnIdleTime: cfg.MaxConnIdleTime,
		ApplicationName: "feed-service",
	}
}

// sweepSessions drops idle wizard sessions until ctx is done
func sweepSessions(ctx context.Context, sessions *handlers.SessionStore, logger *zerolog.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Debug().Str("component", "sessions").Int("removed", n).Msg("Swept idle sessions")
			}
		}
	}
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "feed-service").Logger()
	return &logger
}
