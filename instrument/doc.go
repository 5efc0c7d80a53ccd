// Package instrument wraps HTTP handlers so that every request runs on its
// own hub and scope, continues the caller's trace, and has its telemetry
// finalized exactly once.
//
// # Lifecycle
//
// For each request the wrapper:
//
//  1. clones the process hub into the request context and pushes a request
//     scope carrying a snapshot of the request (credentials stripped)
//  2. starts a transaction named after the method and route template, e.g.
//     "GET /users/[id]", continuing the inbound sentry-trace header
//  3. runs the handler; an error or panic is captured once as an unhandled
//     exception and then propagated unchanged
//  4. on the end-of-response signal, sets the status, finishes the
//     transaction, flushes with a bounded wait and pops the request scope
//
// # Usage
//
//	w := instrument.NewWrapper(instrument.Config{}, instrument.WithParams(instrument.ChiParams))
//	r := chi.NewRouter()
//	r.Use(w.Middleware())
//	r.Get("/users/{id}", getUser)
//
// Handlers that stream can finalize early with Complete(ctx).
//
// # Finalize modes
//
// Blocking (default) finalizes before ServeHTTP returns. Detached finalizes
// in the background and suits long-lived servers where a little lost
// telemetry at shutdown is acceptable.
package instrument
