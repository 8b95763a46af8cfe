package interfaces

import (
	"context"

	"dealflow/internal/domain/entities"
)

// TransitionEvent describes a committed status change. Dispatched after the
// storage commit succeeds; it is never part of the atomic boundary.
type TransitionEvent struct {
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Action     string         `json:"action"`
	FromStatus string         `json:"from_status"`
	ToStatus   string         `json:"to_status"`
	Actor      entities.Actor `json:"actor"`
}

// INotifier announces committed transitions to interested actors.
// Implementations are fire-and-forget: delivery failures are logged, never
// returned, and the caller does not await delivery.
type INotifier interface {
	NotifyTransition(ctx context.Context, ev TransitionEvent)
}
