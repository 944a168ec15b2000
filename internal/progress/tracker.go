// Package progress subscribes to the backend ingestion progress feed and
// keeps the last-seen progress per endpoint for the dashboard to poll.
package progress

import (
	"sync"

	"github.com/portfolio-insights/internal/transform"
	"github.com/portfolio-insights/internal/types"
)

// Tracker keeps the most recent progress event per endpoint. Updates are
// sequence-gated per endpoint so a delayed event racing a newer one cannot
// overwrite it; events replayed after a reconnect lose the race cleanly.
type Tracker struct {
	mu     sync.RWMutex
	latest map[string]types.ProgressEvent
	gates  map[string]*transform.RequestGate
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		latest: make(map[string]types.ProgressEvent),
		gates:  make(map[string]*transform.RequestGate),
	}
}

func (t *Tracker) gateFor(endpoint string) *transform.RequestGate {
	t.mu.Lock()
	defer t.mu.Unlock()
	gate, ok := t.gates[endpoint]
	if !ok {
		gate = &transform.RequestGate{}
		t.gates[endpoint] = gate
	}
	return gate
}

// Update records a progress event. It reports whether the event was
// committed; false means a newer event for the same endpoint won the race.
func (t *Tracker) Update(event types.ProgressEvent) bool {
	gate := t.gateFor(event.Endpoint)
	token := gate.Begin()

	t.mu.Lock()
	defer t.mu.Unlock()
	if !gate.Commit(token) {
		return false
	}
	t.latest[event.Endpoint] = event
	return true
}

// Get returns the last-seen event for one endpoint
func (t *Tracker) Get(endpoint string) (types.ProgressEvent, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	event, ok := t.latest[endpoint]
	return event, ok
}

// Snapshot returns a copy of the last-seen events for all endpoints
func (t *Tracker) Snapshot() map[string]types.ProgressEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]types.ProgressEvent, len(t.latest))
	for endpoint, event := range t.latest {
		out[endpoint] = event
	}
	return out
}
