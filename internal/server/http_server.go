package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authgin "github.com/pilab-dev/osm-auth/api/gin"
	"github.com/pilab-dev/osm-auth/config"
	"github.com/pilab-dev/osm-auth/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a backing dependency is usable.
type HealthCheck func(ctx context.Context) error

// HTTPOptions carries what the HTTP server exposes besides the auth API.
type HTTPOptions struct {
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// Checks are run by /health, keyed by dependency name.
	Checks map[string]HealthCheck
}

// NewHTTPServer creates and configures the Gin HTTP server.
func NewHTTPServer(cfg *config.ServerConfig, appLogger log.Logger, authAPI *authgin.AuthenticationAPI, opts HTTPOptions) *http.Server {
	router := NewRouter(cfg, appLogger, authAPI, opts)

	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// NewRouter builds the gin engine with logging, tracing, health and metrics.
func NewRouter(cfg *config.ServerConfig, appLogger log.Logger, authAPI *authgin.AuthenticationAPI, opts HTTPOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(appLogger))
	router.Use(otelgin.Middleware(cfg.OtelServiceName))

	if authAPI == nil {
		appLogger.Error(context.Background(), "AuthenticationAPI not provided, login routes will not be registered", nil)
	} else {
		authAPI.RegisterRoutes(router)
	}

	router.GET("/health", healthHandler(opts.Checks))
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return router
}

func requestLogger(appLogger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			appLogger.Error(c.Request.Context(), "HTTP request failed", c.Errors.Last().Err, fields)
			return
		}
		appLogger.Info(c.Request.Context(), "HTTP request", fields)
	}
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "unavailable"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
