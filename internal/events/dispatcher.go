package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/account-service/internal/platform/logger"
)

// Common errors returned by the Dispatcher
var (
	ErrDispatcherClosed = errors.New("event dispatcher is closed")
	ErrQueueFull        = errors.New("event queue is full")
)

// DispatcherConfig holds configuration for the Dispatcher.
type DispatcherConfig struct {
	// WorkerCount determines how many goroutines deliver events.
	// If zero or negative, defaults to 1.
	WorkerCount int

	// QueueSize is the buffer size of the pending event queue.
	QueueSize int

	// DeliveryTimeout bounds a single delivery to the downstream emitter.
	// If zero, defaults to 5 seconds.
	DeliveryTimeout time.Duration
}

// Dispatcher is an EventEmitter that queues events and delivers them to a
// downstream emitter from a pool of worker goroutines, so that request
// handlers never wait on the event sink.
//
// Events accepted by EmitEvent are delivered even after Close is called;
// Close returns once the queue has drained.
type Dispatcher struct {
	next    EventEmitter
	queue   chan queued
	config  DispatcherConfig
	logger  *slog.Logger
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	onError func(event *Event, err error)
}

// queued carries the emitting request's logger so delivery logs keep its trace_id.
type queued struct {
	event  *Event
	logger *slog.Logger
}

var _ EventEmitter = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher in front of next and starts its workers.
func NewDispatcher(next EventEmitter, config DispatcherConfig, base *slog.Logger) *Dispatcher {
	if config.WorkerCount <= 0 {
		base.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
		config.WorkerCount = 1
	}
	if config.QueueSize < 0 {
		config.QueueSize = 0
	}
	if config.DeliveryTimeout <= 0 {
		config.DeliveryTimeout = 5 * time.Second
	}

	log := base.With("component", "event_dispatcher")
	d := &Dispatcher{
		next:   next,
		queue:  make(chan queued, config.QueueSize),
		config: config,
		logger: log,
	}
	d.onError = func(event *Event, err error) {
		log.Error("event delivery failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}

	for i := 0; i < config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

// SetErrorHandler replaces the default logging error handler. It must be
// called before any event is emitted.
func (d *Dispatcher) SetErrorHandler(handler func(event *Event, err error)) {
	d.onError = handler
}

// EmitEvent enqueues event for delivery. It never blocks: a full queue
// yields ErrQueueFull.
func (d *Dispatcher) EmitEvent(ctx context.Context, event *Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- queued{event: event, logger: logger.FromContextOrDefault(ctx, d.logger)}:
		d.logger.Debug("event enqueued",
			"event_id", event.ID,
			"event_type", event.Type,
			"queue_len", len(d.queue),
			"queue_cap", cap(d.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// Close stops accepting events and waits for queued events to be delivered.
// It is safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("event dispatcher stopped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for item := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.config.DeliveryTimeout)
		err := d.next.EmitEvent(ctx, item.event)
		cancel()

		if err != nil {
			d.onError(item.event, err)
			continue
		}
		item.logger.Debug("event delivered",
			"worker_id", id,
			"event_id", item.event.ID,
			"event_type", item.event.Type)
	}
}
