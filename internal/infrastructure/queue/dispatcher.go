package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-tracking/internal/api/metrics"
	"github.com/99minutos/carrier-tracking/internal/core/domain"
	"github.com/99minutos/carrier-tracking/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher persists lookup audit records off the request path. Records are
// sharded on the tracking number so a shipment's lookups are written in order.
type Dispatcher struct {
	workers []chan domain.Lookup
	repo    ports.LookupRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.LookupRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Lookup, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Lookup, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes its buffered records and stops.
// The returned channel is closed once every worker has returned.
func (d *Dispatcher) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	finished := make(chan struct{}, len(d.workers))
	for i, ch := range d.workers {
		go func(id int, ch <-chan domain.Lookup) {
			d.runWorker(ctx, id, ch)
			finished <- struct{}{}
		}(i, ch)
	}
	go func() {
		for range d.workers {
			<-finished
		}
		close(done)
	}()
	return done
}

// Record queues a lookup for persistence. It never blocks: when the worker's
// channel is full the record is dropped.
func (d *Dispatcher) Record(lookup domain.Lookup) {
	idx := d.shardIndex(lookup.TrackingNumber)
	select {
	case d.workers[idx] <- lookup:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("tracking", lookup.TrackingNumber).
			Int("worker_id", idx).
			Msg("audit queue full, lookup dropped")
	}
}

// shardIndex maps a tracking number deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingNumber))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Lookup) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case lookup, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.persist(ctx, id, lookup)
		}
	}
}

// drain persists whatever is still buffered once the dispatcher is stopped.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.Lookup) {
	label := strconv.Itoa(id)
	for {
		select {
		case lookup, ok := <-ch:
			if !ok {
				return
			}
			d.persist(ctx, id, lookup)
		default:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(0)
			return
		}
	}
}

// persist writes one record. Each write gets its own timeout and outlives
// the dispatcher's context, so records drained during shutdown still land.
func (d *Dispatcher) persist(ctx context.Context, id int, lookup domain.Lookup) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := d.repo.Insert(writeCtx, &lookup); err != nil {
		metrics.AuditErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("tracking", lookup.TrackingNumber).
			Int("worker_id", id).
			Msg("lookup audit failed")
	}
}
