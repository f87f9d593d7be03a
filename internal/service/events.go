package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/account-service/internal/domain"
	"github.com/phrazzld/account-service/internal/events"
)

// publish emits a domain event. It runs after commit, so failures are logged
// and never returned.
func publish(
	ctx context.Context,
	emitter events.EventEmitter,
	log *slog.Logger,
	eventType string,
	payload interface{},
) {
	if emitter == nil {
		return
	}

	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		log.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}

	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			slog.String("event_type", eventType),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}

func userPayload(u *domain.User) events.UserPayload {
	return events.UserPayload{UserID: u.ID, Name: u.Name, Version: u.Version}
}

func accountPayload(a *domain.Account) events.AccountPayload {
	return events.AccountPayload{
		AccountID: a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Balance:   a.Balance.String(),
	}
}
