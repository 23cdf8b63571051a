// Package eventstest provides an in-memory events.Publisher for tests.
package eventstest

import (
	"context"
	"sync"

	"storefront/internal/events"
)

// Published is one recorded Publish call.
type Published struct {
	RoutingKey string
	Payload    any
}

// Recorder captures published events. Err, when set, is returned from every
// Publish call after the event is recorded.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

var _ events.Publisher = (*Recorder)(nil)

func (r *Recorder) Publish(ctx context.Context, routingKey string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Published{RoutingKey: routingKey, Payload: payload})
	return r.Err
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Published(nil), r.events...)
}

// Keys returns the routing keys published so far, in order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.events))
	for i, e := range r.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
