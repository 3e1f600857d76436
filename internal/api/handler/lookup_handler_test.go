package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

type stubLookupService struct {
	historyFn func(ctx context.Context, in ports.LookupHistoryInput) ([]domain.Lookup, error)
}

func (s *stubLookupService) History(ctx context.Context, in ports.LookupHistoryInput) ([]domain.Lookup, error) {
	return s.historyFn(ctx, in)
}

func lookupContext(e *echo.Echo, target, tracking string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/lookups/:tracking_number")
	c.SetParamNames("tracking_number")
	c.SetParamValues(tracking)
	return c, rec
}

func TestLookupHandler_History_Success(t *testing.T) {
	e := newEcho()
	at := time.Date(2024, 5, 12, 10, 30, 0, 0, time.UTC)
	var got ports.LookupHistoryInput
	h := NewLookupHandler(&stubLookupService{
		historyFn: func(_ context.Context, in ports.LookupHistoryInput) ([]domain.Lookup, error) {
			got = in
			return []domain.Lookup{{TrackingNumber: in.TrackingNumber, Source: domain.SourceNone, LookedUpAt: at}}, nil
		},
	})

	c, rec := lookupContext(e, "/v1/lookups/ABC98211000001?limit=5", "ABC98211000001")
	if err := h.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.TrackingNumber != "ABC98211000001" || got.Limit != 5 {
		t.Fatalf("unexpected service input: %+v", got)
	}

	var resp struct {
		Items []map[string]any `json:"items"`
		Count int              `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Count != 1 || resp.Items[0]["looked_up_at"] != "2024-05-12T10:30:00Z" || resp.Items[0]["source"] != "none" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}
	if resp.Items[0]["last_status"] != nil {
		t.Fatalf("expected null last_status, got %v", resp.Items[0]["last_status"])
	}
	if events, ok := resp.Items[0]["events"].([]any); !ok || len(events) != 0 {
		t.Fatalf("expected empty events array, got %v", resp.Items[0]["events"])
	}
}

func TestLookupHandler_History_InvalidLimit(t *testing.T) {
	e := newEcho()
	h := NewLookupHandler(&stubLookupService{})

	c, _ := lookupContext(e, "/v1/lookups/ABC?limit=500", "ABC")
	err := h.History(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestLookupHandler_History_NotFound(t *testing.T) {
	e := newEcho()
	h := NewLookupHandler(&stubLookupService{
		historyFn: func(context.Context, ports.LookupHistoryInput) ([]domain.Lookup, error) {
			return nil, domain.ErrLookupNotFound
		},
	})

	c, _ := lookupContext(e, "/v1/lookups/ABC", "ABC")
	if err := h.History(c); !errors.Is(err, domain.ErrLookupNotFound) {
		t.Fatalf("expected ErrLookupNotFound, got %v", err)
	}
}

func TestValidator_ReportsParameterNames(t *testing.T) {
	err := NewValidator().Validate(&lookupRequest{TrackingNumber: "ABC", Limit: 101})
	if err == nil || err.Error() != "limit must be at most 100" {
		t.Fatalf("unexpected validation error: %v", err)
	}

	err = NewValidator().Validate(&lookupRequest{})
	if err == nil || err.Error() != "tracking_number is required" {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
