package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/account-service/internal/events"
)

// MockEventEmitter records emitted events.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.Event) error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements the events.EventEmitter interface. The event is
// recorded even when EmitEventFn returns an error.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockEventEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}

// Types returns the recorded event types in emission order.
func (m *MockEventEmitter) Types() []string {
	recorded := m.Events()
	types := make([]string, len(recorded))
	for i, e := range recorded {
		types[i] = e.Type
	}
	return types
}
