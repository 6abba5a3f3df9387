// Package perf records request and query timings as Prometheus metrics.
package perf

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record.
type Entry struct {
	Kind       EntryKind
	Path       string // route pattern or "store.Method"
	StatusCode int    // HTTP status (0 for queries)
	Duration   time.Duration
	Slow       bool
}

// Collector feeds timing entries into Prometheus collectors.
type Collector struct {
	requests     *prometheus.HistogramVec
	queries      *prometheus.HistogramVec
	slowRequests prometheus.Counter
	slowQueries  prometheus.Counter
	events       *prometheus.CounterVec
}

// NewCollector creates the fitclub metrics and registers them with reg.
// PRE: reg is non-nil and has no fitclub metrics registered yet
// POST: Returns a collector whose metrics are exported through reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fitclub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
		queries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fitclub",
			Name:      "db_query_duration_seconds",
			Help:      "Database call latency by operation.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"op"}),
		slowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fitclub",
			Name:      "http_slow_requests_total",
			Help:      "Requests slower than the configured threshold.",
		}),
		slowQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fitclub",
			Name:      "db_slow_queries_total",
			Help:      "Database calls slower than the configured threshold.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fitclub",
			Name:      "events_total",
			Help:      "Membership and access events by name.",
		}, []string{"event"}),
	}
	reg.MustRegister(c.requests, c.queries, c.slowRequests, c.slowQueries, c.events)
	return c
}

// Record observes one entry.
// PRE: e.Kind is KindRequest or KindQuery
// POST: The matching histogram (and slow counter, if e.Slow) is updated
func (c *Collector) Record(e Entry) {
	seconds := e.Duration.Seconds()
	switch e.Kind {
	case KindRequest:
		c.requests.WithLabelValues(e.Path, strconv.Itoa(e.StatusCode)).Observe(seconds)
		if e.Slow {
			c.slowRequests.Inc()
		}
	case KindQuery:
		c.queries.WithLabelValues(e.Path).Observe(seconds)
		if e.Slow {
			c.slowQueries.Inc()
		}
	}
}

// CountEvent increments the counter for a named domain event
// (registration, payment_recorded, admin_access_granted, ...).
func (c *Collector) CountEvent(name string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(name).Inc()
}
