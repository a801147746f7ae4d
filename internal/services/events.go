package services

import (
	"encoding/json"
	"log"
	"time"
)

// Routing keys of the domain events.
const (
	EventUserRegistered     = "user.registered"
	EventRequestSent        = "connection.request.sent"
	EventRequestReviewed    = "connection.request.reviewed"
	EventChatMessageCreated = "chat.message.created"
)

// EventPublisher delivers domain events to a message broker. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// publish marshals payload and hands it to p. A nil publisher disables events.
// Failures are logged and never fail the operation that produced the event.
func publish(p EventPublisher, routingKey string, payload map[string]interface{}) {
	if p == nil {
		return
	}
	payload["event"] = routingKey
	payload["occurredAt"] = time.Now().UTC().Format(time.RFC3339)
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := p.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
