// Package notify delivers user notifications asynchronously.
//
// Delivery is best effort: Notify never blocks the caller and drops events
// when the queue is full or the dispatcher is stopped.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification kinds.
const (
	KindOfferReceived  = "offer.received"
	KindOfferAccepted  = "offer.accepted"
	KindOfferDeclined  = "offer.declined"
	KindReviewReceived = "review.received"
)

// Event is a single notification addressed to a user.
type Event struct {
	ID      uuid.UUID
	UserID  int64
	Kind    string
	Payload map[string]any
	At      time.Time
}

// Sink receives events from the dispatcher workers.
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// Dispatcher queues events and hands them to a Sink from a fixed set of workers.
type Dispatcher struct {
	log     *zap.SugaredLogger
	sink    Sink
	workers int

	mu     sync.RWMutex
	queue  chan Event
	closed bool
	wg     sync.WaitGroup
	now    func() time.Time
}

// New creates a dispatcher. Call Start before Notify has any effect.
func New(log *zap.SugaredLogger, sink Sink, bufferSize, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Dispatcher{
		log:     log.Named("notify"),
		sink:    sink,
		workers: workers,
		queue:   make(chan Event, bufferSize),
		now:     time.Now,
	}
}

// Start launches the workers. They exit once Stop closes the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx, i)
	}
	d.log.Infow("notification dispatcher started", "workers", d.workers, "buffer", cap(d.queue))
}

// Notify enqueues an event for userID. It never blocks.
func (d *Dispatcher) Notify(_ context.Context, userID int64, kind string, payload map[string]any) {
	ev := Event{ID: uuid.New(), UserID: userID, Kind: kind, Payload: payload, At: d.now()}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warnw("notification dropped, dispatcher stopped", "event_id", ev.ID, "kind", kind)
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warnw("notification dropped, queue full", "event_id", ev.ID, "kind", kind, "user_id", userID)
	}
}

// Stop closes the queue and waits for the workers to drain it or for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Infow("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run(ctx context.Context, worker int) {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.sink.Deliver(ctx, ev); err != nil {
			d.log.Errorw("notification delivery failed", "error", err, "event_id", ev.ID, "kind", ev.Kind, "worker", worker)
		}
	}
}

// LogSink writes events to the structured log.
type LogSink struct {
	log *zap.SugaredLogger
}

// NewLogSink creates a sink that logs every event.
func NewLogSink(log *zap.SugaredLogger) *LogSink {
	return &LogSink{log: log.Named("notify.sink")}
}

// Deliver logs the event.
func (s *LogSink) Deliver(_ context.Context, ev Event) error {
	s.log.Infow("notification", "event_id", ev.ID.String(), "user_id", ev.UserID, "kind", ev.Kind, "payload", ev.Payload)
	return nil
}
