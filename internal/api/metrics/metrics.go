// Package metrics defines and registers all custom Prometheus metrics for
// the todosync service. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todosync"

// ConnectionsLive tracks the number of currently registered hub connections.
var ConnectionsLive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connections_live",
		Help:      "Current number of live, authenticated event channel connections.",
	},
)

// EventsProcessedTotal counts inbound channel events that completed
// successfully.
// Label:
//   - event: the inbound event name (addTodo, deleteTodo, retrieveComments, addComment)
var EventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_processed_total",
		Help:      "Total number of channel events successfully processed.",
	},
	[]string{"event"},
)

// EventsErrorsTotal counts inbound channel events that failed, including
// frames that could not be decoded (event label "malformed_frame").
var EventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_errors_total",
		Help:      "Total number of channel events that failed processing.",
	},
	[]string{"event"},
)

// BroadcastsTotal counts full-state fan-outs to all connections.
// Label:
//   - event: the outbound event name (todos, displayComments)
var BroadcastsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of state broadcasts fanned out to all connections.",
	},
	[]string{"event"},
)

// EventDuration measures how long one inbound event takes from dispatch to
// completed broadcast (or failure).
var EventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_duration_seconds",
		Help:      "Duration of channel event handling from dispatch to broadcast.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"event"},
)
