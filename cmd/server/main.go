// @title        Carrier Tracking API
// @version      1.0
// @description  Scrapes the carrier tracking portal and returns normalised shipment activity.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/99minutos/carrier-tracking/internal/api"
	"github.com/99minutos/carrier-tracking/internal/api/handler"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
	"github.com/99minutos/carrier-tracking/internal/core/service"
	"github.com/99minutos/carrier-tracking/internal/infrastructure/carrier"
	"github.com/99minutos/carrier-tracking/internal/infrastructure/db/mongo"
	"github.com/99minutos/carrier-tracking/internal/infrastructure/db/redis"
	"github.com/99minutos/carrier-tracking/internal/infrastructure/queue"
	"github.com/99minutos/carrier-tracking/internal/pkg/config"
	"github.com/99minutos/carrier-tracking/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(ctx)
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "carrier-tracking",
	})

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	checks := map[string]handler.HealthCheck{}
	deps := api.Dependencies{
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Checks:    checks,
	}

	// --- Audit trail (optional) ---
	var audit ports.AuditRecorder
	var workersDone <-chan struct{}
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("connect mongo")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}()

		repo := mongo.NewLookupRepository(db)
		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, repo, logger.Component("audit"))
		workersDone = dispatcher.Start(workerCtx)
		audit = dispatcher

		deps.Lookups = service.NewLookupService(repo)
		checks["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("lookup audit trail enabled")
	}

	// --- Rate limiting (optional) ---
	if cfg.Redis.Addr != "" && cfg.RateLimit.PerMinute > 0 {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer func(c *goredis.Client) {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
		}(rdb)

		deps.Limiter = redis.NewRateLimiter(rdb, cfg.RateLimit.PerMinute, time.Minute)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Int("per_minute", cfg.RateLimit.PerMinute).Msg("rate limiting enabled")
	}

	carrierClient := carrier.NewClient(carrier.Config{
		URL:         cfg.Carrier.URL,
		UserAgent:   cfg.Carrier.UserAgent,
		SubmitLabel: cfg.Carrier.SubmitLabel,
		PageSize:    cfg.Carrier.PageSize,
		Timeout:     cfg.Carrier.Timeout,
	})
	deps.Tracking = service.NewTrackingService(carrierClient, nil, audit, logger.Component("tracking"))

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	cancelWorkers()
	if workersDone != nil {
		<-workersDone
	}
	log.Info().Msg("server stopped")
}
