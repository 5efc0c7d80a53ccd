package metrics

import (
	"github.com/aalemi-dev/reqscope/observability"
)

// Recorder turns observed operations into Prometheus series. It implements
// observability.Observer.
type Recorder struct {
	operations Counter
	durations  Histogram
	requests   Counter
	dropped    Counter
	delivered  Counter
}

// NewRecorder registers the reqscope series on m's application registry.
func NewRecorder(m MetricsCollector) *Recorder {
	return &Recorder{
		operations: m.CreateCounter("operations_total",
			"Internal operations by component, operation and outcome.",
			[]string{"component", "operation", "outcome"}),
		durations: m.CreateHistogram("operation_duration_seconds",
			"Duration of internal operations.",
			[]string{"component", "operation"}, nil),
		requests: m.CreateCounter("requests_finalized_total",
			"Requests finalized by the instrument wrapper, by HTTP status code.",
			[]string{"status"}),
		dropped: m.CreateCounter("events_dropped_total",
			"Events discarded because the transport queue was full.",
			[]string{"transport"}),
		delivered: m.CreateCounter("events_delivered_total",
			"Events handed to a deliverer, by outcome.",
			[]string{"transport", "outcome"}),
	}
}

func (r *Recorder) ObserveOperation(ctx observability.OperationContext) {
	outcome := "success"
	if ctx.Error != nil {
		outcome = "error"
	}
	r.operations.WithLabelValues(ctx.Component, ctx.Operation, outcome).Inc()
	r.durations.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	switch {
	case ctx.Component == "instrument" && ctx.Operation == "finalize":
		r.requests.WithLabelValues(ctx.SubResource).Inc()
	case ctx.Component == "transport" && ctx.Operation == "drop":
		r.dropped.WithLabelValues(ctx.Resource).Add(float64(ctx.Size))
	case ctx.Component == "transport" && ctx.Operation == "deliver":
		r.delivered.WithLabelValues(ctx.Resource, outcome).Add(float64(ctx.Size))
	}
}
