package hub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"squadup/backend/internal/metrics"
	"squadup/backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrSubscriberLagged ends a subscription whose queue overflowed. The subscriber
	// must resubscribe and re-query to reconcile.
	ErrSubscriberLagged = errors.New("hub: subscriber fell behind and was dropped")
	// ErrSubscriptionClosed is returned by Next after Unsubscribe or Hub.Close.
	ErrSubscriptionClosed = errors.New("hub: subscription closed")
)

// Filter declares which events a subscriber wants. The zero value matches everything.
type Filter struct {
	Game    models.Game
	LobbyID uuid.UUID
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	meta := e.Meta()
	if f.LobbyID != uuid.Nil && meta.LobbyID != f.LobbyID {
		return false
	}
	if f.Game == "" || meta.Game == f.Game {
		return true
	}
	// A lobby moved away from the filtered game is still news for that game.
	if u, ok := e.(LobbyUpdated); ok {
		return u.PreviousGame == f.Game
	}
	return false
}

// Subscription is a live stream of events from the point it was created.
type Subscription struct {
	filter Filter
	ch     chan Event
	lagged atomic.Bool

	mu  sync.Mutex
	err error
}

// C returns the event channel. It is closed when the subscription ends.
func (s *Subscription) C() <-chan Event { return s.ch }

// Err reports why the subscription ended: ErrSubscriberLagged, or nil for a
// regular unsubscribe.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Next blocks for the next event.
func (s *Subscription) Next(ctx context.Context) (Event, error) {
	select {
	case e, ok := <-s.ch:
		if !ok {
			if err := s.Err(); err != nil {
				return nil, err
			}
			return nil, ErrSubscriptionClosed
		}
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Hub fans out committed lobby events to all registered subscribers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
	log    zerolog.Logger
}

// NewHub creates a new Hub. buffer is the per-subscriber queue length.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		log:    log.With().Str("component", "hub").Logger(),
	}
}

// Subscribe registers a new subscriber. On a closed hub the returned
// subscription is already closed.
func (h *Hub) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{filter: filter, ch: make(chan Event, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(sub.ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	metrics.Subscribers.Inc()
	return sub
}

// Unsubscribe removes a subscriber. Calling it more than once is harmless.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.drop(sub, nil)
}

// Publish delivers e to every matching subscriber. Callers publish events for a
// given lobby from inside that lobby's exclusion section, which is what keeps
// per-lobby order intact.
func (h *Hub) Publish(e Event) {
	metrics.EventsPublished.WithLabelValues(string(e.Kind())).Inc()

	var laggards []*Subscription
	h.mu.RLock()
	for sub := range h.subs {
		if sub.lagged.Load() || !sub.filter.Match(e) {
			continue
		}
		// Use a non-blocking send so a slow subscriber never stalls a lobby.
		select {
		case sub.ch <- e:
		default:
			if sub.lagged.CompareAndSwap(false, true) {
				laggards = append(laggards, sub)
			}
		}
	}
	h.mu.RUnlock()

	for _, sub := range laggards {
		h.log.Warn().Str("event", string(e.Kind())).Msg("dropping lagging subscriber")
		metrics.SubscribersDropped.Inc()
		h.drop(sub, ErrSubscriberLagged)
	}
}

// Len returns the number of registered subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
		metrics.Subscribers.Dec()
	}
}

func (h *Hub) drop(sub *Subscription, reason error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	sub.mu.Lock()
	sub.err = reason
	sub.mu.Unlock()
	close(sub.ch) // Close the channel to signal the reader to stop.
	metrics.Subscribers.Dec()
}
