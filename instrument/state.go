package instrument

// State is a request's position in the wrapper lifecycle.
type State int32

const (
	Idle State = iota
	ScopeEstablished
	TraceStarted
	HandlerRunning
	HandlerSucceeded
	HandlerFailed
	Finalizing
	Done
)

var stateNames = [...]string{
	Idle:             "idle",
	ScopeEstablished: "scope_established",
	TraceStarted:     "trace_started",
	HandlerRunning:   "handler_running",
	HandlerSucceeded: "handler_succeeded",
	HandlerFailed:    "handler_failed",
	Finalizing:       "finalizing",
	Done:             "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
