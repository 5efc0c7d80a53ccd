// Package transport moves captured events off the request path.
//
// Async is a bounded queue drained by a single worker that hands batches to a
// Deliverer. Send never blocks: when the queue is full the event is dropped
// and counted. Flush waits, up to a deadline, for everything sent before the
// call to be delivered, which is what request finalization relies on.
//
// Deliverers:
//
//   - HTTP posts a JSON Envelope per batch (go-resty).
//   - OTLP exports transactions and their child spans as OpenTelemetry spans
//     over OTLP/HTTP.
//   - Kafka publishes one message per event, keyed by event ID (kafka-go).
//   - Log writes one structured line per event.
//   - Memory keeps events for tests and local inspection.
//
// New builds the deliverer named by Config.Kind:
//
//	t, err := transport.New(ctx, transport.Config{
//	    Kind: transport.KindHTTP,
//	    HTTP: transport.HTTPConfig{Endpoint: "https://ingest.example.com/events"},
//	}, transport.WithLogger(log))
package transport
