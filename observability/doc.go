// Package observability defines the single Observer interface through which
// reqscope packages report their own internal operations.
//
// # Overview
//
// The request wrapper, the hub, the event transport and the gorm plugin all
// report what they did (finalizing a request, flushing the client, delivering a
// batch, running a query) as an OperationContext. Applications decide what to
// do with it: the metrics package turns operations into Prometheus series, a
// custom observer could log them. Every package works without an observer.
//
// # Usage in reqscope packages
//
// Packages accept an optional Observer and call it when an operation ends:
//
//	start := time.Now()
//	ok := hub.Flush(timeout)
//
//	if w.observer != nil {
//	    w.observer.ObserveOperation(observability.OperationContext{
//	        Component: "instrument",
//	        Operation: "flush",
//	        Resource:  tx.Name(),
//	        Duration:  time.Since(start),
//	        Error:     err,
//	    })
//	}
//
// # Usage in applications
//
//	fx.Provide(
//	    fx.Annotate(
//	        metrics.NewRecorder,
//	        fx.As(new(observability.Observer)),
//	    ),
//	)
//
// Several observers can be combined with Multi, and a plain function can be
// used through ObserverFunc.
//
// # OperationContext fields
//
//   - Component: which package reported it (instrument, hub, transport, client, gorm)
//   - Operation: what was done (finalize, flush, capture, scope_pop, deliver, drop, query)
//   - Resource:  primary subject (transaction name, deliverer kind, table)
//   - SubResource: secondary subject (HTTP status, span op)
//   - Duration:  how long it took
//   - Error:     failure, nil on success
//   - Size:      events in a batch, rows affected
//   - Metadata:  anything else
//
// # Thread Safety
//
// Observer implementations must be thread-safe. They are called concurrently
// from request goroutines and from the transport worker.
package observability
