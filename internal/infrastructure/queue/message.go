package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/victoragudo/hotel-management-system/console/internal/ports"
)

const MessageTypeInvalidate = "cache.invalidate"

// Message is the envelope every console publishes on the invalidation exchange.
type Message struct {
	ID   string                  `json:"id"`
	Type string                  `json:"type"`
	Data ports.InvalidationEvent `json:"data"`
}

func NewInvalidationMessage(event ports.InvalidationEvent) Message {
	return Message{ID: uuid.NewString(), Type: MessageTypeInvalidate, Data: event}
}

// DecodeMessage parses a delivery body. Unknown message types and events without a resource are
// rejected so they are dropped instead of redelivered.
func DecodeMessage(body []byte) (Message, error) {
	var message Message
	if err := json.Unmarshal(body, &message); err != nil {
		return Message{}, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	if message.Type != MessageTypeInvalidate {
		return Message{}, fmt.Errorf("unsupported message type %q", message.Type)
	}
	if message.Data.Resource == "" {
		return Message{}, fmt.Errorf("message %s has no resource", message.ID)
	}
	return message, nil
}
