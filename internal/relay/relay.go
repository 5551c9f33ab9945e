// Package relay mirrors committed lobby events onto a redis pub/sub channel so that
// other processes can follow lobby activity without holding an HTTP stream open.
package relay

import (
	"context"
	"fmt"
	"time"

	"squadup/backend/internal/hub"
	"squadup/backend/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultBuffer  = 256
	publishTimeout = 2 * time.Second
)

// Client is the part of *redis.Client the relay needs.
type Client interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

// Relay queues events without blocking the publisher and forwards them from a single
// worker, so events of one lobby reach redis in the order they were committed.
type Relay struct {
	client  Client
	channel string
	queue   chan hub.Event
	log     zerolog.Logger
}

func New(client Client, channel string, buffer int, log zerolog.Logger) *Relay {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Relay{
		client:  client,
		channel: channel,
		queue:   make(chan hub.Event, buffer),
		log:     log.With().Str("component", "relay").Str("channel", channel).Logger(),
	}
}

// Dial connects to the redis server at url and returns a relay publishing on channel.
func Dial(ctx context.Context, url, channel string, log zerolog.Logger) (*Relay, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return New(client, channel, DefaultBuffer, log), nil
}

// Publish enqueues e for forwarding. When the queue is full the event is dropped.
func (r *Relay) Publish(e hub.Event) {
	select {
	case r.queue <- e:
	default:
		metrics.RelayMessages.WithLabelValues("dropped").Inc()
		r.log.Warn().Str("event", e.Meta().ID).Str("kind", string(e.Kind())).Msg("relay queue full, event dropped")
	}
}

// Run forwards queued events until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	r.log.Info().Msg("relay started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Int("pending", len(r.queue)).Msg("relay stopped")
			return nil
		case e := <-r.queue:
			r.forward(ctx, e)
		}
	}
}

func (r *Relay) forward(ctx context.Context, e hub.Event) {
	data, err := hub.Encode(e)
	if err != nil {
		metrics.RelayMessages.WithLabelValues("error").Inc()
		r.log.Error().Err(err).Msg("encode event")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		metrics.RelayMessages.WithLabelValues("error").Inc()
		r.log.Error().Err(err).Str("event", e.Meta().ID).Msg("redis publish failed")
		return
	}
	metrics.RelayMessages.WithLabelValues("sent").Inc()
}

func (r *Relay) Close() error {
	return r.client.Close()
}
