package types

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// TimelineEvent is one milestone in a delivery fulfillment timeline.
type TimelineEvent struct {
	Label     string     `json:"label"`
	Status    string     `json:"status"`
	Detail    string     `json:"detail,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// TimelineEvents stores the ordered milestone list as JSONB.
type TimelineEvents []TimelineEvent

// Value serializes the timeline to JSON.
func (t TimelineEvents) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal(TimelineEvents{})
	}
	return json.Marshal(t)
}

// Scan decodes JSONB into the timeline slice.
func (t *TimelineEvents) Scan(value interface{}) error {
	if value == nil {
		*t = TimelineEvents{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, t)
}
