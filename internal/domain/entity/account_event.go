package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountEventType names a change in an account's lifecycle.
type AccountEventType string

const (
	AccountEventCreated AccountEventType = "user.created"
	AccountEventDeleted AccountEventType = "user.deleted"
)

// AccountEvent is published after an account is created or removed.
// It never carries credentials.
type AccountEvent struct {
	Type       AccountEventType `json:"type"`
	UserID     uuid.UUID        `json:"userId"`
	RequestID  string           `json:"requestId,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}
