package domain

import "encoding/json"

// Event is a single entry of a carrier tracking timeline.
//
// Events scraped from the activity widget carry only Timestamp, Status and
// Detail. Events recovered from the embedded payload also keep their
// array element verbatim in Raw, which is what gets serialised back to clients.
type Event struct {
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Detail    string `json:"detail"`

	// Shipping is the guide number reported by the event itself, when any.
	Shipping string          `json:"-"`
	Raw      json.RawMessage `json:"-"`
}

// MarshalJSON emits Raw verbatim when present, the three text fields otherwise.
func (e Event) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	type plainEvent Event
	return json.Marshal(plainEvent(e))
}

// TrackingResult is the normalised answer for one tracking lookup.
// LastStatus is the first event: the carrier lists activity newest first.
type TrackingResult struct {
	Shipping   *string `json:"shipping"`
	LastStatus *Event  `json:"last_status"`
	Events     []Event `json:"events"`
}

// ExtractionSource names which extractor produced a result's events.
type ExtractionSource string

const (
	SourceMarkup   ExtractionSource = "markup"
	SourceEmbedded ExtractionSource = "embedded"
	SourceNone     ExtractionSource = "none"
)
