// Package suppression drops repeat notifications for the same event type
// inside a configured window.
//
// The window starts when an event type is delivered and is not extended by
// suppressed occurrences, so after every delivery the type must stay quiet
// for the full window before it is delivered again. Expired entries for all
// event types are evicted lazily during checks; there is no background sweep.
package suppression
