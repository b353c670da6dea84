// Package types defines the event model shared by the receiver, the reactor
// and the message builders. These are the canonical in-memory representations
// of host log and alert events, separate from the JSON wire format accepted by
// the receiver.
package types
