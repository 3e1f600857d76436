package domain

import (
	"errors"
	"fmt"
)

var ErrMissingTrackingNumber = errors.New("missing tracking number")
var ErrRateLimited = errors.New("rate limit exceeded")
var ErrLookupNotFound = errors.New("lookup not found")

// UpstreamError reports a non-2xx answer from the carrier portal.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("carrier portal responded with status %d", e.StatusCode)
}

// Reasons reported by ParseError.
const (
	ReasonScriptNotFound   = "script not found"
	ReasonPayloadNotFound  = "payload literal not found"
	ReasonInvalidLiteral   = "invalid string literal"
	ReasonInvalidEventList = "invalid event array"
)

// ParseError is raised by the embedded-data extractor when the page carries no
// usable payload. Callers treat it as "no data", never as a failure.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse embedded payload: %s: %v", e.Reason, e.Err)
	}
	return "parse embedded payload: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
