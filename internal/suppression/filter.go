package suppression

import (
	"sync"
	"time"

	"github.com/slackrelay/slackrelay/pkg/types"
)

// Filter decides whether an event should be suppressed as a duplicate.
//
// Filter is safe for concurrent use. The check and the update of an event
// type's window happen under one lock.
type Filter struct {
	window time.Duration

	mu    sync.Mutex
	since map[types.EventType]time.Time // last delivery per event type
}

// New returns a Filter with a window of the given number of minutes.
// A window of zero or less disables suppression.
func New(minutes int) *Filter {
	return &Filter{
		window: time.Duration(minutes) * time.Minute,
		since:  make(map[types.EventType]time.Time),
	}
}

// Window returns the configured suppression window.
func (f *Filter) Window() time.Duration {
	return f.window
}

// ShouldSuppressAt reports whether an event of type t arriving at now falls
// inside the window opened by the last delivery of t. When it does not, now
// becomes the start of a new window and the event should be delivered.
func (f *Filter) ShouldSuppressAt(t types.EventType, now time.Time) bool {
	if f.window <= 0 {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if since, ok := f.since[t]; ok && !since.Add(f.window).Before(now) {
		f.evictExpired(now)
		return true
	}

	f.evictExpired(now)
	f.since[t] = now
	return false
}

// evictExpired removes entries whose window closed before now.
// Callers must hold f.mu.
func (f *Filter) evictExpired(now time.Time) {
	for t, since := range f.since {
		if since.Add(f.window).Before(now) {
			delete(f.since, t)
		}
	}
}
