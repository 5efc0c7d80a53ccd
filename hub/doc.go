// Package hub keeps the scope stack of a unit of work and routes captured
// events to the telemetry client.
//
// Isolation is by explicit context passing. The process-wide Default hub is
// only a template; each request runs on a clone stored on its context:
//
//	ctx, h := hub.Isolate(r.Context())
//	h.Scope().SetTag("tenant", tenant)
//	...
//	hub.FromContext(ctx).CaptureException(err)
//
// Two requests isolated this way never see each other's tags, extra data,
// processors or spans, however their goroutines interleave.
//
// PushScope and PopScope nest scopes inside one hub. PopScopeExpecting is
// the checked variant used when finalizing a request: it removes the top
// scope only if it was pushed from the expected parent and otherwise logs a
// warning and leaves the stack alone.
package hub
