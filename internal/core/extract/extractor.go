package extract

import (
	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

// Extractor holds the pluggable parts of the extraction pipeline.
type Extractor struct {
	isArtifact ArtifactDetector
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithArtifactDetector replaces the template-artifact predicate.
func WithArtifactDetector(d ArtifactDetector) Option {
	return func(e *Extractor) {
		if d != nil {
			e.isArtifact = d
		}
	}
}

// New returns an Extractor using LooksLikeTemplate unless overridden.
func New(opts ...Option) *Extractor {
	e := &Extractor{isArtifact: LooksLikeTemplate}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildResult merges extracted events with the caller's tracking number.
// events is stored as is and must not be modified afterwards.
func BuildResult(events []domain.Event, trackingNumber string) *domain.TrackingResult {
	if events == nil {
		events = []domain.Event{}
	}

	res := &domain.TrackingResult{Events: events}
	switch {
	case trackingNumber != "":
		res.Shipping = &trackingNumber
	case len(events) > 0 && events[0].Shipping != "":
		shipping := events[0].Shipping
		res.Shipping = &shipping
	}
	if len(events) > 0 {
		res.LastStatus = &events[0]
	}
	return res
}
