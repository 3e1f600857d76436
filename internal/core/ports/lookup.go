package ports

import (
	"context"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

// LookupRepository persists the lookup audit trail.
type LookupRepository interface {
	Insert(ctx context.Context, lookup *domain.Lookup) error
	// ListByTrackingNumber returns up to limit lookups, newest first.
	ListByTrackingNumber(ctx context.Context, trackingNumber string, limit int) ([]domain.Lookup, error)
}

// LookupHistoryInput carries the parameters of the history endpoint.
type LookupHistoryInput struct {
	TrackingNumber string
	Limit          int
}

// LookupService exposes the audit trail to operators.
type LookupService interface {
	History(ctx context.Context, in LookupHistoryInput) ([]domain.Lookup, error)
}

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
