package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector creates application metrics.
type MetricsCollector interface {
	CreateCounter(name, help string, labels []string) Counter
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram
}

// Counter is a monotonically increasing metric, optionally labelled.
type Counter interface {
	WithLabelValues(lvs ...string) Counter
	Inc()
	Add(val float64)
}

// Histogram samples observations into buckets.
type Histogram interface {
	WithLabelValues(lvs ...string) Sample
	Observe(val float64)
}

// Sample is a single labelled histogram series.
type Sample interface {
	Observe(val float64)
}

type counterVec struct {
	vec *prometheus.CounterVec
}

func (c *counterVec) WithLabelValues(lvs ...string) Counter {
	return &counter{metric: c.vec.WithLabelValues(lvs...)}
}

func (c *counterVec) Inc()            { c.vec.WithLabelValues().Inc() }
func (c *counterVec) Add(val float64) { c.vec.WithLabelValues().Add(val) }

type counter struct {
	metric prometheus.Counter
}

func (c *counter) WithLabelValues(...string) Counter { return c }
func (c *counter) Inc()                              { c.metric.Inc() }
func (c *counter) Add(val float64)                   { c.metric.Add(val) }

type histogramVec struct {
	vec *prometheus.HistogramVec
}

func (h *histogramVec) WithLabelValues(lvs ...string) Sample {
	return h.vec.WithLabelValues(lvs...)
}

func (h *histogramVec) Observe(val float64) {
	h.vec.WithLabelValues().Observe(val)
}
