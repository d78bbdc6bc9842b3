package providers

import (
	"context"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// EventBus publishes and consumes reservation lifecycle events
type EventBus interface {
	// Publish publishes an event to all subscribers of the channel
	Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error)

	// Unsubscribe removes a subscription channel
	Unsubscribe(ctx context.Context, channel string, events <-chan *entities.ReservationEvent) error

	// Close shuts down the bus and all subscriptions
	Close() error
}

// ReservationEventsChannel is the pub/sub channel carrying reservation
// lifecycle events.
const ReservationEventsChannel = "reservations.events"
