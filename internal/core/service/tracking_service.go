package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-tracking/internal/api/metrics"
	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/extract"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

type trackingService struct {
	carrier   ports.CarrierClient
	extractor *extract.Extractor
	audit     ports.AuditRecorder
	log       zerolog.Logger
	now       func() time.Time
}

// NewTrackingService returns a TrackingService implementation. audit may be
// nil when the audit trail is disabled.
func NewTrackingService(
	carrier ports.CarrierClient,
	extractor *extract.Extractor,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.TrackingService {
	if extractor == nil {
		extractor = extract.New()
	}
	return &trackingService{
		carrier:   carrier,
		extractor: extractor,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// Track fetches the carrier page for trackingNumber and normalises its
// activity. A page without parsable activity yields an empty result.
func (s *trackingService) Track(ctx context.Context, trackingNumber string) (*domain.TrackingResult, error) {
	start := s.now()
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		s.observe(start, "invalid")
		return nil, domain.ErrMissingTrackingNumber
	}

	// Once issued, the fetch runs to completion even if the client goes away.
	html, err := s.carrier.FetchTrackingPage(context.WithoutCancel(ctx), trackingNumber)
	if err != nil {
		var upErr *domain.UpstreamError
		if errors.As(err, &upErr) {
			metrics.UpstreamErrorsTotal.WithLabelValues(strconv.Itoa(upErr.StatusCode)).Inc()
			s.observe(start, "upstream_error")
		} else {
			s.observe(start, "error")
		}
		return nil, fmt.Errorf("track %s: %w", trackingNumber, err)
	}

	events, source, err := s.extractEvents(trackingNumber, html)
	if err != nil {
		s.observe(start, "error")
		return nil, fmt.Errorf("track %s: %w", trackingNumber, err)
	}

	result := extract.BuildResult(events, trackingNumber)

	metrics.ExtractionSourceTotal.WithLabelValues(string(source)).Inc()
	metrics.EventsExtracted.Observe(float64(len(result.Events)))
	s.observe(start, "ok")

	if s.audit != nil {
		s.audit.Record(domain.Lookup{
			TrackingNumber: trackingNumber,
			Source:         source,
			EventCount:     len(result.Events),
			LastStatus:     result.LastStatus,
			Events:         result.Events,
			LookedUpAt:     s.now().UTC(),
		})
	}

	s.log.Info().
		Str("tracking", trackingNumber).
		Str("source", string(source)).
		Int("events", len(result.Events)).
		Msg("tracking lookup completed")

	return result, nil
}

// extractEvents runs the activity scraper and falls back to the embedded
// payload when the widget is empty. A missing payload is not an error.
func (s *trackingService) extractEvents(trackingNumber, html string) ([]domain.Event, domain.ExtractionSource, error) {
	if events := s.extractor.Activities(html); len(events) > 0 {
		return events, domain.SourceMarkup, nil
	}

	events, err := s.extractor.Embedded(html)
	if err != nil {
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			s.log.Debug().
				Str("tracking", trackingNumber).
				Str("reason", perr.Reason).
				Err(perr.Err).
				Msg("no embedded tracking payload")
			return nil, domain.SourceNone, nil
		}
		return nil, domain.SourceNone, err
	}
	if len(events) == 0 {
		return events, domain.SourceNone, nil
	}
	return events, domain.SourceEmbedded, nil
}

func (s *trackingService) observe(start time.Time, outcome string) {
	metrics.LookupsTotal.WithLabelValues(outcome).Inc()
	metrics.LookupDuration.WithLabelValues(outcome).Observe(s.now().Sub(start).Seconds())
}
