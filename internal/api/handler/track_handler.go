package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

// TrackHandler serves carrier tracking lookups.
type TrackHandler struct {
	service ports.TrackingService
}

func NewTrackHandler(service ports.TrackingService) *TrackHandler {
	return &TrackHandler{service: service}
}

// Track handles GET /api/track and GET /v1/track/:tracking_number.
//
// @Summary      Look up a shipment on the carrier portal
// @Tags         tracking
// @Produce      json
// @Param        tracking  query     string  true  "Tracking number (e.g. ABC98211000001)"
// @Success      200       {object}  domain.TrackingResult
// @Failure      400       {object}  errorResponse
// @Failure      429       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /api/track [get]
func (h *TrackHandler) Track(c echo.Context) error {
	var req trackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	req.Tracking = strings.TrimSpace(req.Tracking)
	if err := c.Validate(&req); err != nil {
		return domain.ErrMissingTrackingNumber
	}

	result, err := h.service.Track(c.Request().Context(), req.Tracking)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
