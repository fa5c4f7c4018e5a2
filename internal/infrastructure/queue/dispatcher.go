package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/api/metrics"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes mutation events to a fixed set of audit workers using
// consistent hashing on the resource id, so the history of one resource is
// recorded in commit order.
type Dispatcher struct {
	workers []chan domain.MutationEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu       sync.Mutex
	cancel   context.CancelFunc
	drainCtx context.Context
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.MutationEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.MutationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// when ctx is cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.drainCtx = context.Background()
	d.mu.Unlock()

	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop cancels the workers and waits for them to record what is still
// buffered. ctx bounds the whole drain: once it expires the remaining events
// are dropped and Stop returns ctx.Err().
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.drainCtx = ctx
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drainContext() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.drainCtx
}

// Publish hands an event to the worker responsible for its resource. It never
// blocks the request path: when that worker's buffer is full the event is
// dropped and logged.
func (d *Dispatcher) Publish(event domain.MutationEvent) {
	idx := d.shardIndex(event.ResourceID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("resource", string(event.Resource)).
			Str("resource_id", event.ResourceID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps a resource id deterministically to a worker index.
func (d *Dispatcher) shardIndex(resourceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resourceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.MutationEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		if ctx.Err() != nil {
			d.drain(d.drainContext(), id, ch)
			return
		}
		select {
		case <-ctx.Done():
			d.drain(d.drainContext(), id, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.record(ctx, id, event)
		}
	}
}

// drain records whatever is still buffered after shutdown begins, until ctx expires.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.MutationEvent) {
	for {
		if ctx.Err() != nil {
			if n := len(ch); n > 0 {
				metrics.AuditEventsTotal.WithLabelValues("dropped").Add(float64(n))
				d.log.Warn().Int("worker_id", id).Int("events", n).Msg("audit drain deadline reached, events dropped")
			}
			return
		}
		select {
		case event := <-ch:
			d.record(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.MutationEvent) {
	if err := d.service.Record(ctx, event); err != nil {
		d.log.Error().Err(err).
			Str("resource", string(event.Resource)).
			Str("resource_id", event.ResourceID).
			Int("worker_id", id).
			Msg("audit record failed")
	}
}
