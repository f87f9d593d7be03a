package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingEmitter records delivered events; block, if set, holds every
// delivery until it is closed.
type recordingEmitter struct {
	mu     sync.Mutex
	events []*Event
	err    error
	block  chan struct{}
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingEmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func testEvent(t *testing.T) *Event {
	t.Helper()
	event, err := NewEvent(AccountCreated, AccountPayload{AccountID: 1, UserID: uuid.New(), Name: "Main", Balance: "100"})
	require.NoError(t, err)
	return event
}

func TestDispatcher_DeliversAllOnClose(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := &recordingEmitter{}
	d := NewDispatcher(next, DispatcherConfig{WorkerCount: 3, QueueSize: 50}, discard)

	for i := 0; i < 20; i++ {
		require.NoError(t, d.EmitEvent(context.Background(), testEvent(t)))
	}
	d.Close()

	assert.Equal(t, 20, next.count())
	assert.ErrorIs(t, d.EmitEvent(context.Background(), testEvent(t)), ErrDispatcherClosed)

	// second close is a no-op
	d.Close()
}

func TestDispatcher_QueueFull(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := &recordingEmitter{block: make(chan struct{})}
	d := NewDispatcher(next, DispatcherConfig{WorkerCount: 1, QueueSize: 1}, discard)

	// one event held by the worker, one in the buffer
	require.NoError(t, d.EmitEvent(context.Background(), testEvent(t)))
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, d.EmitEvent(context.Background(), testEvent(t)))

	err := d.EmitEvent(context.Background(), testEvent(t))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(next.block)
	d.Close()
	assert.Equal(t, 2, next.count())
}

func TestDispatcher_ErrorHandler(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := &recordingEmitter{err: errors.New("sink down")}
	d := NewDispatcher(next, DispatcherConfig{WorkerCount: 0, QueueSize: 4}, discard)

	var failures atomic.Int32
	d.SetErrorHandler(func(event *Event, err error) {
		assert.EqualError(t, err, "sink down")
		failures.Add(1)
	})

	require.NoError(t, d.EmitEvent(context.Background(), testEvent(t)))
	require.NoError(t, d.EmitEvent(context.Background(), testEvent(t)))
	d.Close()

	assert.Equal(t, int32(2), failures.Load())
	assert.Equal(t, 1, d.config.WorkerCount)
}
