package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event types emitted by the host for its own alerting. Any other value is an
// ordinary log event.
const (
	EventTypeAlertV1 EventType = 0xA1E77000
	EventTypeAlertV2 EventType = 0xA1E77001
)

// EventType is the 32-bit kind tag of an event. Events produced from the same
// message template share an EventType.
type EventType uint32

// String renders the type in the host's "$XXXXXXXX" hex notation.
func (t EventType) String() string {
	return fmt.Sprintf("$%08X", uint32(t))
}

// UnmarshalJSON accepts a JSON number or a hex string in any of the forms
// "$A1E77000", "0xA1E77000" or "A1E77000".
func (t *EventType) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "$"), "0x")
		s = strings.TrimPrefix(s, "0X")
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return fmt.Errorf("event type %q: %w", s, err)
		}
		*t = EventType(v)
		return nil
	}
	var v uint32
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("event type: %w", err)
	}
	*t = EventType(v)
	return nil
}

// Event is one log or alert event delivered by the host. Events are
// immutable once constructed; builders only read them.
type Event struct {
	ID              string     `json:"id"`
	EventType       EventType  `json:"eventType"`
	Timestamp       time.Time  `json:"timestamp"`
	Level           Level      `json:"level"`
	RenderedMessage string     `json:"renderedMessage"`
	Exception       string     `json:"exception,omitempty"`
	Properties      Properties `json:"properties,omitempty"`
}

// IsAlert reports whether the event was raised by one of the host's alert
// generations.
func (e *Event) IsAlert() bool {
	return e.EventType == EventTypeAlertV1 || e.EventType == EventTypeAlertV2
}
