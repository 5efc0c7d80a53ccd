package observability

import "time"

// Observer receives a notification for every internal operation performed by
// reqscope packages. It is optional everywhere it is accepted.
type Observer interface {
	// ObserveOperation is called when an operation completes.
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component identifies the reporting package.
	// Examples: "instrument", "hub", "transport", "client", "gorm"
	Component string

	// Operation describes what was performed.
	// Examples:
	//   instrument: "finalize", "flush", "capture"
	//   hub:        "scope_pop"
	//   transport:  "deliver", "drop"
	//   gorm:       "query", "create", "update", "delete"
	Operation string

	// Resource identifies the primary subject.
	// Examples: transaction name ("GET /users/[id]"), deliverer ("http"), table ("orders")
	Resource string

	// SubResource adds optional context, e.g. the response status code.
	SubResource string

	// Duration is how long the operation took.
	Duration time.Duration

	// Error is the failure, if any. nil means success.
	Error error

	// Size is an optional count: events in a batch, rows affected.
	Size int64

	// Metadata holds anything that does not fit the fields above.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

type multi []Observer

func (m multi) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}

// Multi fans every operation out to all non-nil observers. It returns nil
// when none are given, so callers can keep their nil checks.
func Multi(observers ...Observer) Observer {
	var out multi
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
