package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

// LookupHandler exposes the lookup audit trail to operators.
type LookupHandler struct {
	service ports.LookupService
}

func NewLookupHandler(service ports.LookupService) *LookupHandler {
	return &LookupHandler{service: service}
}

// History handles GET /v1/lookups/:tracking_number.
//
// @Summary      List recent lookups of a tracking number
// @Tags         lookups
// @Produce      json
// @Security     BearerAuth
// @Param        tracking_number  path      string  true   "Tracking number"
// @Param        limit            query     int     false  "Max records (1-100, default 20)"
// @Success      200              {object}  lookupListResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/lookups/{tracking_number} [get]
func (h *LookupHandler) History(c echo.Context) error {
	var req lookupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	lookups, err := h.service.History(c.Request().Context(), ports.LookupHistoryInput{
		TrackingNumber: req.TrackingNumber,
		Limit:          req.Limit,
	})
	if err != nil {
		return err
	}

	resp := lookupListResponse{Items: make([]lookupResponse, 0, len(lookups)), Count: len(lookups)}
	for _, l := range lookups {
		resp.Items = append(resp.Items, toLookupResponse(l))
	}
	return c.JSON(http.StatusOK, resp)
}

func toLookupResponse(l domain.Lookup) lookupResponse {
	events := l.Events
	if events == nil {
		events = []domain.Event{}
	}
	return lookupResponse{
		TrackingNumber: l.TrackingNumber,
		Source:         string(l.Source),
		EventCount:     l.EventCount,
		LastStatus:     l.LastStatus,
		Events:         events,
		LookedUpAt:     l.LookedUpAt.UTC().Format(time.RFC3339),
	}
}
