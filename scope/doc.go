// Package scope holds the mutable context that is merged into every event
// captured during a unit of work: tags, extra data, the user, the active span
// and an ordered chain of event processors.
//
// Clone returns a child that starts from a snapshot of its parent and keeps
// its own writes local, so a request can decorate its scope without touching
// the process-wide one:
//
//	base := scope.New()
//	base.SetTag("service", "orders")
//
//	req := base.Clone()
//	req.SetTag("route", "/orders/[id]")
//	req.AddEventProcessor(func(ev *event.Event) *event.Event {
//	    ev.Tags["handled_by"] = "orders"
//	    return ev
//	})
//
// Writes the parent makes after the clone are not visible in the child. Clear
// drops everything the scope holds, inherited data included.
package scope
