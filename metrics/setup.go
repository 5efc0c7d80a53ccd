package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the system and application registries and the HTTP servers
// exposing them.
type Metrics struct {
	SystemServer        *http.Server
	ApplicationServer   *http.Server
	SystemRegistry      *prometheus.Registry
	ApplicationRegistry *prometheus.Registry

	namespace  string
	registerer prometheus.Registerer
}

// NewMetrics builds the registries and servers described by cfg. Servers are
// started by the fx lifecycle, or by the caller.
func NewMetrics(cfg Config) *Metrics {
	m := &Metrics{namespace: cfg.Namespace}
	if m.namespace == "" {
		m.namespace = DefaultNamespace
	}
	labels := prometheus.Labels{"service": cfg.ServiceName}

	systemAddr := DefaultSystemMetricsAddress
	if cfg.SystemMetricsAddress != nil {
		systemAddr = *cfg.SystemMetricsAddress
	}
	if systemAddr != "" {
		reg := prometheus.NewRegistry()
		prometheus.WrapRegistererWith(labels, reg).MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
		m.SystemRegistry = reg
		m.SystemServer = &http.Server{
			Addr:    systemAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
	}

	// The application registry always exists so a Recorder can be built;
	// only its server depends on the address.
	reg := prometheus.NewRegistry()
	m.ApplicationRegistry = reg
	m.registerer = prometheus.WrapRegistererWith(labels, reg)

	appAddr := DefaultApplicationMetricsAddress
	if cfg.ApplicationMetricsAddress != nil {
		appAddr = *cfg.ApplicationMetricsAddress
	}
	if appAddr != "" {
		m.ApplicationServer = &http.Server{
			Addr:    appAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
	}
	return m
}

// CreateCounter registers a counter vector in the application registry.
func (m *Metrics) CreateCounter(name, help string, labels []string) Counter {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	m.registerer.MustRegister(vec)
	return &counterVec{vec: vec}
}

// CreateHistogram registers a histogram vector in the application registry.
// nil buckets use prometheus.DefBuckets.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) Histogram {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	m.registerer.MustRegister(vec)
	return &histogramVec{vec: vec}
}
