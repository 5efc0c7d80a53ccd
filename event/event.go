package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is the severity attached to an error or message event.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// TypeTransaction marks an event carrying a finished transaction.
// Error and message events leave Type empty.
const TypeTransaction = "transaction"

// Mechanism describes how an exception was caught.
type Mechanism struct {
	Type    string                 `json:"type"`
	Handled *bool                  `json:"handled,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Exception is one error in the chain carried by an event.
type Exception struct {
	Type      string     `json:"type"`
	Value     string     `json:"value"`
	Mechanism *Mechanism `json:"mechanism,omitempty"`
}

// User identifies the end user affected by an event.
type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// Request is the snapshot of the inbound HTTP request attached to events.
type Request struct {
	Method      string            `json:"method,omitempty"`
	URL         string            `json:"url,omitempty"`
	QueryString string            `json:"query_string,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

// TraceContext links an event to the span that was active when it was captured.
type TraceContext struct {
	TraceID      string `json:"trace_id"`
	SpanID       string `json:"span_id"`
	ParentSpanID string `json:"parent_span_id,omitempty"`
	Op           string `json:"op,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Span is a finished child span shipped inside a transaction event.
type Span struct {
	TraceID        string                 `json:"trace_id"`
	SpanID         string                 `json:"span_id"`
	ParentSpanID   string                 `json:"parent_span_id,omitempty"`
	Op             string                 `json:"op,omitempty"`
	Description    string                 `json:"description,omitempty"`
	Status         string                 `json:"status,omitempty"`
	StartTimestamp time.Time              `json:"start_timestamp"`
	Timestamp      time.Time              `json:"timestamp"`
	Tags           map[string]string      `json:"tags,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
}

// Event is the unit submitted to the telemetry client.
type Event struct {
	ID             string                 `json:"event_id"`
	Type           string                 `json:"type,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	StartTimestamp time.Time              `json:"start_timestamp,omitempty"`
	Level          Level                  `json:"level,omitempty"`
	Message        string                 `json:"message,omitempty"`
	Transaction    string                 `json:"transaction,omitempty"`
	Exceptions     []Exception            `json:"exception,omitempty"`
	Tags           map[string]string      `json:"tags,omitempty"`
	Extra          map[string]interface{} `json:"extra,omitempty"`
	User           *User                  `json:"user,omitempty"`
	Fingerprint    []string               `json:"fingerprint,omitempty"`
	Request        *Request               `json:"request,omitempty"`
	Trace          *TraceContext          `json:"trace,omitempty"`
	Spans          []Span                 `json:"spans,omitempty"`
	Environment    string                 `json:"environment,omitempty"`
	Release        string                 `json:"release,omitempty"`
	ServerName     string                 `json:"server_name,omitempty"`
}

// New returns an empty event with a fresh ID and the current timestamp.
func New() *Event {
	return &Event{
		ID:        NewID(),
		Timestamp: time.Now().UTC(),
		Tags:      make(map[string]string),
		Extra:     make(map[string]interface{}),
	}
}

// NewID returns a random 32 character hex identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsTransaction reports whether ev carries a finished transaction.
func (ev *Event) IsTransaction() bool {
	return ev != nil && ev.Type == TypeTransaction
}

// Bool returns a pointer to v, for Mechanism.Handled.
func Bool(v bool) *bool {
	return &v
}

// AddExceptionMechanism merges m into the mechanism of every exception on ev.
// Fields already set on an exception's mechanism are overwritten by the
// non-zero fields of m; Data maps are merged.
func AddExceptionMechanism(ev *Event, m Mechanism) {
	if ev == nil {
		return
	}
	for i := range ev.Exceptions {
		exc := &ev.Exceptions[i]
		if exc.Mechanism == nil {
			exc.Mechanism = &Mechanism{Type: "generic", Handled: Bool(true)}
		}
		if m.Type != "" {
			exc.Mechanism.Type = m.Type
		}
		if m.Handled != nil {
			exc.Mechanism.Handled = Bool(*m.Handled)
		}
		if len(m.Data) > 0 {
			if exc.Mechanism.Data == nil {
				exc.Mechanism.Data = make(map[string]interface{}, len(m.Data))
			}
			for k, v := range m.Data {
				exc.Mechanism.Data[k] = v
			}
		}
	}
}
