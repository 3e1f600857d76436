package handler

import "github.com/99minutos/carrier-tracking/internal/core/domain"

// trackRequest is bound from ?tracking= on /api/track and from the path on
// /v1/track/:tracking_number.
type trackRequest struct {
	Tracking string `query:"tracking" param:"tracking_number" validate:"required"`
}

type lookupRequest struct {
	TrackingNumber string `param:"tracking_number" validate:"required"`
	Limit          int    `query:"limit"           validate:"omitempty,min=1,max=100"`
}

type lookupResponse struct {
	TrackingNumber string         `json:"tracking_number"`
	Source         string         `json:"source"`
	EventCount     int            `json:"event_count"`
	LastStatus     *domain.Event  `json:"last_status"`
	Events         []domain.Event `json:"events"`
	LookedUpAt     string         `json:"looked_up_at"`
}

type lookupListResponse struct {
	Items []lookupResponse `json:"items"`
	Count int              `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}
