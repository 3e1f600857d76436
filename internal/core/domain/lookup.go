package domain

import "time"

// Lookup is the audit record of one completed tracking lookup.
type Lookup struct {
	TrackingNumber string
	Source         ExtractionSource
	EventCount     int
	LastStatus     *Event
	Events         []Event
	LookedUpAt     time.Time
}
