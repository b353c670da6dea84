package receiver

import (
	"time"

	"github.com/slackrelay/slackrelay/pkg/types"
)

// eventRequest is the inbound JSON form of an event. Level is kept as text
// so that a missing level can default to Information.
type eventRequest struct {
	ID              string           `json:"id"`
	EventType       types.EventType  `json:"eventType"`
	Timestamp       *time.Time       `json:"timestamp"`
	Level           string           `json:"level"`
	RenderedMessage string           `json:"renderedMessage"`
	Exception       string           `json:"exception"`
	Properties      types.Properties `json:"properties"`
}

// EventsResponse is returned by POST /api/v1/events.
type EventsResponse struct {
	Accepted   int      `json:"accepted"`
	Sent       int      `json:"sent"`
	Suppressed int      `json:"suppressed"`
	Failed     int      `json:"failed"`
	IDs        []string `json:"ids"`
	Errors     []string `json:"errors,omitempty"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status     string  `json:"status"`
	Received   float64 `json:"events_received"`
	Suppressed float64 `json:"events_suppressed"`
	Sent       float64 `json:"messages_sent"`
}

type errorResponse struct {
	Error string `json:"error"`
}
