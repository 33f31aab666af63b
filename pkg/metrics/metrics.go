// Package metrics exposes Prometheus metrics for AFS connectors.
//
// # Overview
//
// Every call to a connector's Send is counted once, labelled with the web
// service it targeted and its outcome, and its duration is observed in a
// histogram. Outcomes are:
//   - success: a reply was decoded
//   - connection_error: the request could not be initialized
//   - execution_error: the transfer failed or returned an empty body
//   - decode_error: the body was not valid JSON or decoded to nothing
//
// # Basic Usage
//
//	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
//	timer := metrics.NewTimer("search")
//	reply := doSend()
//	collector.ObserveRequest("search", metrics.OutcomeSuccess, timer.Stop())
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeConnectionError = "connection_error"
	OutcomeExecutionError  = "execution_error"
	OutcomeDecodeError     = "decode_error"
)

// Collector records connector request metrics.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	replyBytes      *prometheus.HistogramVec
}

var (
	defaultCollector *Collector
	defaultOnce      sync.Once
)

// Default returns the collector registered on prometheus.DefaultRegisterer.
func Default() *Collector {
	defaultOnce.Do(func() {
		defaultCollector = NewCollector(prometheus.DefaultRegisterer)
	})
	return defaultCollector
}

// NewCollector creates a collector and registers its metrics on reg. When
// the metrics already exist on reg, the registered ones are reused.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "afs_connector_requests_total",
				Help: "Total number of AFS web service requests",
			},
			[]string{"web_service", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "afs_connector_request_duration_seconds",
				Help: "AFS web service request duration in seconds",
				Buckets: []float64{
					0.005, // 5ms - cached replies
					0.025,
					0.1, // 100ms - typical search
					0.25,
					1,
					2.5,
					10, // transport default timeouts
				},
			},
			[]string{"web_service"},
		),
		replyBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "afs_connector_reply_bytes",
				Help:    "Size of AFS reply bodies in bytes",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
			[]string{"web_service"},
		),
	}

	if reg == nil {
		return c
	}
	c.requestsTotal = register(reg, c.requestsTotal)
	c.requestDuration = register(reg, c.requestDuration)
	c.replyBytes = register(reg, c.replyBytes)
	return c
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) C {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return collector
}

// ObserveRequest records one request to webService.
func (c *Collector) ObserveRequest(webService, outcome string, duration time.Duration) {
	c.requestsTotal.WithLabelValues(webService, outcome).Inc()
	c.requestDuration.WithLabelValues(webService).Observe(duration.Seconds())
}

// ObserveReplySize records the size of a received reply body.
func (c *Collector) ObserveReplySize(webService string, size int) {
	c.replyBytes.WithLabelValues(webService).Observe(float64(size))
}

// RequestsTotal returns the underlying counter, mostly for tests.
func (c *Collector) RequestsTotal() *prometheus.CounterVec {
	return c.requestsTotal
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the name the timer was created with.
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It can be called more
// than once.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
