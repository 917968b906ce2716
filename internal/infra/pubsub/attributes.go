package pubsub

import "authsvc/internal/domain/entity"

// eventAttributes are the message attributes subscribers filter and trace on.
func eventAttributes(event *entity.AccountEvent) map[string]string {
	attributes := map[string]string{
		"event_type": string(event.Type),
		"user_id":    event.UserID.String(),
	}
	if event.RequestID != "" {
		attributes["request_id"] = event.RequestID
	}

	return attributes
}
