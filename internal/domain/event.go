package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single behavior signal (click, impression, ...). Events are
// immutable once created and are persisted best-effort by the event worker.
type Event struct {
	ID        string
	Type      string
	SessionID string
	Payload   map[string]any
	CreatedAt time.Time
}

// NewEvent creates an event with a fresh id and the current timestamp.
func NewEvent(eventType, sessionID string, payload map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Event types recognized by the behavior aggregations. Other types are
// stored as-is but never aggregated.
const (
	// EventTypeClick marks a product click; clicks drive ranking boosts.
	EventTypeClick = "click"
	// EventTypeImpression marks a product shown in a result list.
	EventTypeImpression = "impression"
)

// BehaviorMetric aggregates behavior signals for one product.
type BehaviorMetric struct {
	Clicks      int
	Impressions int
}
