package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/carrier-tracking/docs"
	"github.com/99minutos/carrier-tracking/internal/api/handler"
	"github.com/99minutos/carrier-tracking/internal/api/middleware"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
// Lookups and Limiter are optional.
type Dependencies struct {
	Tracking  ports.TrackingService
	Lookups   ports.LookupService
	Limiter   ports.RateLimiter
	Checks    map[string]handler.HealthCheck
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))

	// --- Tracking ---
	trackHandler := handler.NewTrackHandler(deps.Tracking)
	var trackMW []echo.MiddlewareFunc
	if deps.Limiter != nil {
		trackMW = append(trackMW, middleware.RateLimit(deps.Limiter, deps.Log))
	}
	e.GET("/api/track", trackHandler.Track, trackMW...)
	e.GET("/v1/track/:tracking_number", trackHandler.Track, trackMW...)

	// --- Lookup history (operators only) ---
	if deps.Lookups != nil && deps.JWTSecret != "" {
		lookupHandler := handler.NewLookupHandler(deps.Lookups)
		admin := e.Group("/v1/lookups", middleware.Auth(deps.JWTSecret), middleware.RBAC("admin"))
		admin.GET("/:tracking_number", lookupHandler.History)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
