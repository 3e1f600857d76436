package ports

import (
	"context"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

// CarrierClient fetches the raw tracking page from the carrier portal.
type CarrierClient interface {
	// FetchTrackingPage returns the HTML body. A non-2xx answer is reported
	// as *domain.UpstreamError.
	FetchTrackingPage(ctx context.Context, trackingNumber string) (string, error)
}

// TrackingService resolves a tracking number into its normalised timeline.
type TrackingService interface {
	Track(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error)
}

// AuditRecorder hands a completed lookup to the audit trail. Implementations
// must not block the caller.
type AuditRecorder interface {
	Record(lookup domain.Lookup)
}
