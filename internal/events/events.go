package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types published after a successful commit.
const (
	UserRegistered = "user.registered"
	UserRenamed    = "user.renamed"
	UserDeleted    = "user.deleted"

	AccountCreated         = "account.created"
	AccountRenamed         = "account.renamed"
	AccountBalanceReplaced = "account.balance_replaced"
	AccountDeleted         = "account.deleted"
)

// Event is a domain event. Payload holds one of the payload structs below
// serialized as JSON.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// UserPayload is carried by user.registered and user.renamed.
type UserPayload struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	Version int64     `json:"version"`
}

// UserDeletedPayload is carried by user.deleted.
type UserDeletedPayload struct {
	UserID          uuid.UUID `json:"user_id"`
	AccountsDeleted int64     `json:"accounts_deleted"`
}

// AccountPayload is carried by every account.* event.
// Balance is the decimal string so no precision is lost on the wire.
type AccountPayload struct {
	AccountID int64     `json:"account_id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Balance   string    `json:"balance,omitempty"`
}

// NewEvent creates an Event with a fresh ID and the given type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler processes events delivered by an InMemoryEventEmitter.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter publishes events. Services call it after their transaction
// commits; a failure to emit never undoes the committed change.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}
