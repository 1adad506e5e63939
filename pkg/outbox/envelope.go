package outbox

import (
	"encoding/json"
	"time"
)

// ActorRef identifies who produced the event. UIDs come from the external
// identity provider and are opaque strings.
type ActorRef struct {
	UserUID string `json:"userUid"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
