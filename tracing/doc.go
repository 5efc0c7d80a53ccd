// Package tracing provides the span model used to trace a request and the
// correlator that continues a caller's trace.
//
// A request is traced by one transaction (the root span) plus any child spans
// started under it:
//
//	tx := tracing.StartTransaction("GET /users/[id]",
//	    tracing.WithOp("http.server"),
//	    tracing.WithLinkage(tracing.ExtractTraceData(r.Header.Get(tracing.DefaultTraceHeader))),
//	)
//	child := tx.StartChild("db", tracing.WithDescription("SELECT ..."))
//	child.Finish()
//	tx.SetHTTPStatus(200)
//	tx.Finish()
//
// # Trace linkage
//
// ExtractTraceData parses the inbound propagation header, which has the form
// traceId-spanId-sampled with sampled being "1", "0" or absent. A missing or
// malformed header yields nil and the transaction starts a new trace; a bad
// upstream header never fails the request.
//
// # Finishing
//
// Finish is idempotent: the end timestamp is set by the first call only.
// Status should be set before Finish; SetHTTPStatus maps an HTTP code onto a
// span status and records the http.status_code tag.
//
// Spans are safe for concurrent use.
package tracing
