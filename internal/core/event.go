package core

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// EventTypeDice is the event_type emitted by the dice producer.
const EventTypeDice = "dice"

// Event is the envelope a producer emits for one outcome.
type Event struct {
	TrialID   int64
	Type      string
	Outcome   Face
	Timestamp time.Time
}

// ParseEvent decodes a single JSON event envelope as emitted by the
// producer: {"trial_id": 1, "event_type": "dice", "outcome": 3,
// "timestamp": "2025-10-07T01:23:45Z"}.
// The timestamp is optional; trial_id, event_type and outcome are not.
func ParseEvent(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return Event{}, fmt.Errorf("invalid event JSON")
	}

	fields := gjson.GetManyBytes(data, "trial_id", "event_type", "outcome", "timestamp")
	trialID, eventType, outcome, timestamp := fields[0], fields[1], fields[2], fields[3]

	if !eventType.Exists() {
		return Event{}, fmt.Errorf("event missing event_type")
	}
	if !outcome.Exists() {
		return Event{}, fmt.Errorf("event missing outcome")
	}
	if outcome.Type != gjson.Number {
		return Event{}, fmt.Errorf("event outcome %q is not numeric", outcome.Raw)
	}

	evt := Event{
		TrialID: trialID.Int(),
		Type:    eventType.String(),
		Outcome: Face(outcome.Int()),
	}

	if timestamp.Exists() {
		ts, err := time.Parse(time.RFC3339, timestamp.String())
		if err != nil {
			return Event{}, fmt.Errorf("event timestamp: %w", err)
		}
		evt.Timestamp = ts
	}

	return evt, nil
}
