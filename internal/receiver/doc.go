// Package receiver implements the relay's inbound HTTP API.
//
// New returns an http.Handler that serves:
//
//	POST /api/v1/events  - one event object or an array of them; each is relayed in order
//	POST /api/v1/render  - one event; returns the Slack payload without sending it
//	GET  /healthz        - liveness plus relay counters
//
// All endpoints respond with Content-Type: application/json. Events without
// an id get a random UUID; events without a timestamp get the current time.
// When auth mode is "apikey" the /api/v1 routes require the key header.
package receiver
