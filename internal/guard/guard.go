// Package guard serializes mutations per lobby.
package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"squadup/backend/internal/metrics"
	apperr "squadup/backend/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// entry is the exclusion context for one lobby. refs counts holders and waiters;
// the entry is reclaimed when it drops to zero.
type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Guard hands out one exclusion section per lobby id. Sections for different ids
// never block each other.
type Guard struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func New() *Guard {
	return &Guard{entries: make(map[uuid.UUID]*entry)}
}

// WithLobbyExclusion runs op while holding the exclusion section for lobbyID.
//
// Waiting for the section honours ctx: if ctx ends first, op never runs and the
// error is ErrLockTimeout (deadline) or ErrRequestCanceled (cancellation). Once op
// has started it runs to completion and receives a context that is never canceled.
// The section is released when op returns, including when it fails or panics.
func (g *Guard) WithLobbyExclusion(ctx context.Context, lobbyID uuid.UUID, op func(ctx context.Context) error) error {
	e := g.acquire(lobbyID)
	defer g.release(lobbyID, e)

	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = e.sem.Acquire(ctx, 1)
	}
	if err != nil {
		metrics.GuardAcquireFailures.Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return apperr.ErrLockTimeout
		}
		return apperr.ErrRequestCanceled
	}
	defer e.sem.Release(1)
	metrics.GuardWaitSeconds.Observe(time.Since(start).Seconds())

	return op(context.WithoutCancel(ctx))
}

// Len returns the number of live exclusion contexts.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

func (g *Guard) acquire(lobbyID uuid.UUID) *entry {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[lobbyID]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		g.entries[lobbyID] = e
	}
	e.refs++
	return e
}

func (g *Guard) release(lobbyID uuid.UUID, e *entry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(g.entries, lobbyID)
	}
}
