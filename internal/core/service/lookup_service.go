package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type LookupService struct {
	repo ports.LookupRepository
}

func NewLookupService(repo ports.LookupRepository) *LookupService {
	return &LookupService{repo: repo}
}

// History returns the most recent audited lookups of a tracking number.
func (s *LookupService) History(ctx context.Context, in ports.LookupHistoryInput) ([]domain.Lookup, error) {
	trackingNumber := strings.TrimSpace(in.TrackingNumber)
	if trackingNumber == "" {
		return nil, domain.ErrMissingTrackingNumber
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	lookups, err := s.repo.ListByTrackingNumber(ctx, trackingNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("lookup history: %w", err)
	}
	if len(lookups) == 0 {
		return nil, domain.ErrLookupNotFound
	}
	return lookups, nil
}
