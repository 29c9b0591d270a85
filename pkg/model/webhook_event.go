package model

import (
	"encoding/json"
	"time"
)

// WebhookEvent is what gets published for every accepted webhook delivery.
// Payload holds the body exactly as received.
type WebhookEvent struct {
	ID         string          `json:"id"`
	Provider   string          `json:"provider"`
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Key identifies the delivery across retries from the same provider.
func (e *WebhookEvent) Key() string {
	return e.Provider + ":" + e.EventID
}
