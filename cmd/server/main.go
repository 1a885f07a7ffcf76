package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	authgin "github.com/pilab-dev/osm-auth/api/gin"
	"github.com/pilab-dev/osm-auth/cache"
	redisstore "github.com/pilab-dev/osm-auth/cache/redis"
	"github.com/pilab-dev/osm-auth/config"
	"github.com/pilab-dev/osm-auth/internal/metrics"
	"github.com/pilab-dev/osm-auth/internal/osm"
	"github.com/pilab-dev/osm-auth/internal/server"
	"github.com/pilab-dev/osm-auth/internal/telemetry"
	"github.com/pilab-dev/osm-auth/log"
	"github.com/pilab-dev/osm-auth/mongodb"
	"github.com/pilab-dev/osm-auth/services"
	"github.com/pilab-dev/osm-auth/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		stdLog := zerolog.New(os.Stdout).With().Timestamp().Logger()
		stdLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, ok := log.ParseLevel(cfg.LogLevel)
	if !ok {
		zerolog.New(os.Stdout).With().Timestamp().Logger().Warn().
			Str("configured_log_level", cfg.LogLevel).
			Str("fallback_log_level", logLevel.String()).
			Msg("Invalid LOG_LEVEL configured, defaulting to 'info'")
	}
	zerolog.SetGlobalLevel(logLevel)
	if cfg.LogPretty {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	if logLevel > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := log.NewZerologAdapter(logLevel, cfg.LogPretty)
	ctx := context.Background()
	appLogger.Info(ctx, "Starting osm-auth server...", log.Fields{
		"http_port":      cfg.HTTPPort,
		"mongo_db_name":  cfg.MongoDBName,
		"state_store":    cfg.StateStore,
		"osm_server_url": cfg.OSMServerURL,
		"log_level":      logLevel.String(),
		"otel_service":   cfg.OtelServiceName,
	})
	if cfg.OAuthClientID == "" {
		appLogger.Warn(ctx, "OAUTH_CLIENT_ID is empty, OSM will reject authorization requests")
	}

	tp, err := tracing.InitTracerProvider(ctx, cfg.OtelServiceName, cfg.OtelExporterEndpoint)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize TracerProvider", err)
	}

	if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
		appLogger.Fatal(ctx, "Failed to initialize MongoDB connection", err)
	}
	db, err := mongodb.GetDB()
	if err != nil {
		appLogger.Fatal(ctx, "MongoDB database unavailable", err)
	}

	userRepo, err := mongodb.NewUserRepository(ctx, db)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize UserRepository", err)
	}
	messageRepo, err := mongodb.NewMessageRepository(ctx, db)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize MessageRepository", err)
	}

	checks := map[string]server.HealthCheck{"mongodb": mongodb.Ping}

	states, redisClient := newStateStore(ctx, cfg, appLogger)
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var sessions *services.SessionTokenIssuer
	if cfg.SessionSecretKey != "" {
		sessions, err = services.NewSessionTokenIssuer(cfg.SessionSecretKey, cfg.SessionTokenTTL)
		if err != nil {
			appLogger.Fatal(ctx, "Failed to initialize session tokens", err)
		}
	} else {
		appLogger.Info(ctx, "SESSION_SECRET_KEY not set, callbacks will not return a session_token")
	}

	osmCfg := cfg.OSMConfig()
	authService := services.NewAuthService(services.AuthServiceOptions{
		OAuth:        osmCfg,
		Provider:     osm.NewClient(osmCfg, nil),
		Users:        services.NewUserService(userRepo),
		Notifier:     services.NewMessageService(messageRepo),
		States:       states,
		Sessions:     sessions,
		StateTTL:     cfg.OAuthStateTTL,
		RequireState: cfg.OAuthRequireState,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.InitCustomMetrics(registry)
	meterProvider, err := telemetry.InitMeterProvider(registry)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize MeterProvider", err)
	}

	httpServer := server.NewHTTPServer(cfg, appLogger, authgin.NewAuthenticationAPI(authService), server.HTTPOptions{
		Gatherer: registry,
		Checks:   checks,
	})
	go func() {
		appLogger.Info(ctx, fmt.Sprintf("HTTP server listening on port %s", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(ctx, "Failed to start HTTP server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit

	appLogger.Info(ctx, fmt.Sprintf("Received signal: %v. Shutting down server...", receivedSignal))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "HTTP server shutdown error", err)
	}

	if memStore, ok := states.(*cache.MemoryStateStore); ok {
		memStore.Stop()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.Error(shutdownCtx, "Redis client close error", err)
		}
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "TracerProvider shutdown error", err)
	}
	telemetry.Shutdown(shutdownCtx, meterProvider)

	mongodb.CloseMongoDB(shutdownCtx)

	appLogger.Info(shutdownCtx, "Server gracefully stopped.")
}

// newStateStore returns the configured state store and, for redis, its client.
func newStateStore(ctx context.Context, cfg *config.ServerConfig, appLogger log.Logger) (cache.StateStore, *goredis.Client) {
	if cfg.StateStore != config.StateStoreRedis {
		return cache.NewMemoryStateStore(cfg.OAuthStateTTL), nil
	}

	client, err := redisstore.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to connect to Redis", err)
	}
	appLogger.Info(ctx, "Using Redis state store", log.Fields{"redis_addr": cfg.RedisAddr})
	return redisstore.NewStateStore(client, redisstore.DefaultPrefix), client
}
