package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/account-service/internal/events"
)

// StreamAdder is the subset of the go-redis client used by StreamEmitter.
type StreamAdder interface {
	XAdd(ctx context.Context, a *goredis.XAddArgs) *goredis.StringCmd
}

// StreamEmitter is an events.EventEmitter that appends each event to a Redis
// stream as a single "event" field holding the JSON-encoded event.
type StreamEmitter struct {
	client StreamAdder
	stream string
	logger *slog.Logger
}

var _ events.EventEmitter = (*StreamEmitter)(nil)

// NewStreamEmitter creates a StreamEmitter writing to stream.
func NewStreamEmitter(client StreamAdder, stream string, logger *slog.Logger) *StreamEmitter {
	return &StreamEmitter{
		client: client,
		stream: stream,
		logger: logger.With("component", "redis_stream_emitter"),
	}
}

// EmitEvent implements events.EventEmitter.
func (e *StreamEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	id, err := e.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: e.stream,
		Values: map[string]any{
			"type":  event.Type,
			"event": eventJSON,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	e.logger.Debug("event published",
		slog.String("stream", e.stream),
		slog.String("stream_id", id),
		slog.String("event_type", event.Type))
	return nil
}
