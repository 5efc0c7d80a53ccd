// Package metrics exposes Prometheus metrics for services using reqscope.
//
// Two registries are served on separate addresses: a system registry with the
// Go runtime, process and build info collectors, and an application registry
// holding the series recorded by Recorder. Every series carries a constant
// "service" label.
//
// Recorder implements observability.Observer. Handing it to the instrument
// wrapper, the hub, the client and the transport yields:
//
//	reqscope_operations_total{component, operation, outcome}
//	reqscope_operation_duration_seconds{component, operation}
//	reqscope_requests_finalized_total{status}
//	reqscope_events_dropped_total{transport}
//	reqscope_events_delivered_total{transport, outcome}
//
// Transaction names stay out of the labels; without a route parameter source
// they are raw paths.
package metrics
