package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadup_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "squadup_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	LobbiesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadup_lobbies_created_total",
			Help: "Total lobbies created",
		},
		[]string{"game"},
	)

	LobbiesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "squadup_lobbies_deleted_total",
			Help: "Total lobbies soft-deleted",
		},
	)

	LobbiesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "squadup_lobbies_purged_total",
			Help: "Total soft-deleted lobbies reclaimed from storage",
		},
	)

	JoinAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadup_join_attempts_total",
			Help: "Join attempts by outcome",
		},
		[]string{"result"}, // ok, full, already_member, not_found, forbidden, timeout, error
	)

	// Notifier metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadup_events_published_total",
			Help: "Lobby events published to the notifier",
		},
		[]string{"kind"},
	)

	Subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "squadup_subscribers",
			Help: "Currently registered event subscribers",
		},
	)

	SubscribersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "squadup_subscribers_dropped_total",
			Help: "Subscribers terminated because their queue overflowed",
		},
	)

	// Guard metrics
	GuardWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "squadup_guard_wait_seconds",
			Help:    "Time spent waiting for a lobby exclusion section",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 2},
		},
	)

	GuardAcquireFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "squadup_guard_acquire_failures_total",
			Help: "Exclusion sections abandoned before entry (timeout or cancellation)",
		},
	)

	// Relay metrics
	RelayMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "squadup_relay_messages_total",
			Help: "Lobby events mirrored to redis, by outcome",
		},
		[]string{"result"}, // sent, dropped, error
	)
)
