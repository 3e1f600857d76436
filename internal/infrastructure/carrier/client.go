package carrier

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
)

// Form fields expected by the portal's tracking search.
const (
	fieldTrackingNumber = "nrogui"
	fieldSubmit         = "Submit"
	fieldPageSize       = "ffw"

	formContentType = "application/x-www-form-urlencoded; charset=UTF-8"
)

// Config captures the settings of the carrier portal client.
type Config struct {
	URL         string
	UserAgent   string
	SubmitLabel string
	PageSize    string
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration
}

// Client posts tracking searches to the carrier portal.
type Client struct {
	http *resty.Client
	cfg  Config
}

// NewClient builds a Client. Failed requests are never retried.
func NewClient(cfg Config) *Client {
	rc := resty.New()
	rc.SetHeader("User-Agent", cfg.UserAgent)
	rc.SetRetryCount(0)
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	return &Client{http: rc, cfg: cfg}
}

// FetchTrackingPage submits the search form and returns the response body.
func (c *Client) FetchTrackingPage(ctx context.Context, trackingNumber string) (string, error) {
	form := url.Values{}
	form.Set(fieldTrackingNumber, trackingNumber)
	form.Set(fieldSubmit, c.cfg.SubmitLabel)
	form.Set(fieldPageSize, c.cfg.PageSize)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", formContentType).
		SetBody(form.Encode()).
		Post(c.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("fetch tracking page: %w", err)
	}
	if !res.IsSuccess() {
		return "", &domain.UpstreamError{StatusCode: res.StatusCode()}
	}
	return res.String(), nil
}
