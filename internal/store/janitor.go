package store

import (
	"context"
	"time"

	"squadup/backend/internal/metrics"

	"github.com/rs/zerolog"
)

// Janitor periodically removes lobbies that were soft-deleted more than `after` ago.
type Janitor struct {
	store    Store
	after    time.Duration
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewJanitor(st Store, after, interval time.Duration, log zerolog.Logger) *Janitor {
	return &Janitor{
		store:    st,
		after:    after,
		interval: interval,
		log:      log.With().Str("component", "janitor").Logger(),
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is done. Sweep failures are logged and retried
// on the next tick.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil && ctx.Err() == nil {
				j.log.Error().Err(err).Msg("purge failed")
			}
		}
	}
}

// Sweep purges once and returns the number of lobbies removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	n, err := j.store.PurgeInactive(ctx, j.now().Add(-j.after))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.LobbiesPurged.Add(float64(n))
		j.log.Info().Int("purged", n).Msg("removed deleted lobbies")
	}
	return n, nil
}
