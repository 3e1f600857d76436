package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

const (
	msgMissingTrackingNumber = "Falta el número de seguimiento."
	msgUpstreamFailed        = "La solicitud de seguimiento falló (%d)."
	msgRateLimited           = "Demasiadas solicitudes, intenta más tarde."
	msgLookupNotFound        = "No hay consultas registradas para ese número de seguimiento."
	msgFallback              = "No se pudo interpretar la respuesta de seguimiento."
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes and renders {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, auth, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var upErr *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrMissingTrackingNumber):
		return http.StatusBadRequest, msgMissingTrackingNumber
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, msgRateLimited
	case errors.Is(err, domain.ErrLookupNotFound):
		return http.StatusNotFound, msgLookupNotFound
	case errors.As(err, &upErr):
		log.Warn().
			Err(err).
			Int("upstream_status", upErr.StatusCode).
			Str("path", c.Path()).
			Msg("carrier portal request failed")
		return http.StatusInternalServerError, fmt.Sprintf(msgUpstreamFailed, upErr.StatusCode)
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	msg := err.Error()
	if msg == "" {
		msg = msgFallback
	}
	return http.StatusInternalServerError, msg
}
