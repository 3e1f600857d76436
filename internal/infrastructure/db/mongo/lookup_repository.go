package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

const lookupsCollection = "tracking_lookups"

type eventDocument struct {
	Timestamp string `bson:"timestamp"`
	Status    string `bson:"status"`
	Detail    string `bson:"detail"`
	Shipping  string `bson:"shipping,omitempty"`
	// Raw holds the embedded payload element as JSON text.
	Raw string `bson:"raw,omitempty"`
}

type lookupDocument struct {
	TrackingNumber string          `bson:"tracking_number"`
	Source         string          `bson:"source"`
	EventCount     int             `bson:"event_count"`
	LastStatus     *eventDocument  `bson:"last_status,omitempty"`
	Events         []eventDocument `bson:"events"`
	LookedUpAt     time.Time       `bson:"looked_up_at"`
}

// LookupRepository implements ports.LookupRepository using MongoDB.
type LookupRepository struct {
	db *mongo.Database
}

// NewLookupRepository creates a new LookupRepository.
func NewLookupRepository(db *mongo.Database) ports.LookupRepository {
	return &LookupRepository{db: db}
}

// Insert appends a lookup to the tracking_lookups audit collection.
func (r *LookupRepository) Insert(ctx context.Context, lookup *domain.Lookup) error {
	_, err := r.db.Collection(lookupsCollection).InsertOne(ctx, toLookupDocument(lookup))
	if err != nil {
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// ListByTrackingNumber returns up to limit lookups, newest first.
func (r *LookupRepository) ListByTrackingNumber(ctx context.Context, trackingNumber string, limit int) ([]domain.Lookup, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "looked_up_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.db.Collection(lookupsCollection).Find(ctx, bson.M{"tracking_number": trackingNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("find lookups: %w", err)
	}
	defer cur.Close(ctx)

	var docs []lookupDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode lookups: %w", err)
	}

	lookups := make([]domain.Lookup, 0, len(docs))
	for i := range docs {
		lookups = append(lookups, toDomainLookup(&docs[i]))
	}
	return lookups, nil
}

func toLookupDocument(l *domain.Lookup) lookupDocument {
	doc := lookupDocument{
		TrackingNumber: l.TrackingNumber,
		Source:         string(l.Source),
		EventCount:     l.EventCount,
		Events:         make([]eventDocument, 0, len(l.Events)),
		LookedUpAt:     l.LookedUpAt.UTC(),
	}
	for _, e := range l.Events {
		doc.Events = append(doc.Events, toEventDocument(e))
	}
	if l.LastStatus != nil {
		last := toEventDocument(*l.LastStatus)
		doc.LastStatus = &last
	}
	return doc
}

func toEventDocument(e domain.Event) eventDocument {
	return eventDocument{
		Timestamp: e.Timestamp,
		Status:    e.Status,
		Detail:    e.Detail,
		Shipping:  e.Shipping,
		Raw:       string(e.Raw),
	}
}

func toDomainLookup(doc *lookupDocument) domain.Lookup {
	l := domain.Lookup{
		TrackingNumber: doc.TrackingNumber,
		Source:         domain.ExtractionSource(doc.Source),
		EventCount:     doc.EventCount,
		Events:         make([]domain.Event, 0, len(doc.Events)),
		LookedUpAt:     doc.LookedUpAt,
	}
	for _, e := range doc.Events {
		l.Events = append(l.Events, toDomainEvent(e))
	}
	if doc.LastStatus != nil {
		last := toDomainEvent(*doc.LastStatus)
		l.LastStatus = &last
	}
	return l
}

func toDomainEvent(doc eventDocument) domain.Event {
	e := domain.Event{
		Timestamp: doc.Timestamp,
		Status:    doc.Status,
		Detail:    doc.Detail,
		Shipping:  doc.Shipping,
	}
	if doc.Raw != "" {
		e.Raw = json.RawMessage(doc.Raw)
	}
	return e
}
