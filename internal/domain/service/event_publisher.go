package service

import (
	"context"

	"authsvc/internal/domain/entity"
)

// EventPublisher publishes account lifecycle events to a message broker.
type EventPublisher interface {
	// PublishAccountEvent publishes an event and waits for the broker to accept it.
	PublishAccountEvent(ctx context.Context, event *entity.AccountEvent) error

	// Close releases broker resources.
	Close() error
}
