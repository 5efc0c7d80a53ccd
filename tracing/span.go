package tracing

import (
	"strconv"
	"sync"
	"time"

	"github.com/aalemi-dev/reqscope/event"
)

// Span is a timed operation inside a trace. The root span of a request is its
// transaction; children share its trace ID and are shipped with it.
//
// A Span is safe for concurrent use.
type Span struct {
	mu sync.RWMutex

	traceID      string
	spanID       string
	parentSpanID string
	op           string
	description  string
	name         string
	start        time.Time
	end          time.Time
	status       Status
	sampled      bool
	tags         map[string]string
	data         map[string]interface{}

	transaction *Span
	children    []*Span
	onFinish    func(*Span)
	finishOnce  sync.Once
}

// StartTransaction starts a root span named name. Without WithLinkage a new
// trace ID is generated.
func StartTransaction(name string, opts ...SpanOption) *Span {
	s := &Span{
		traceID: newTraceID(),
		spanID:  newSpanID(),
		name:    name,
		sampled: true,
		tags:    make(map[string]string),
		data:    make(map[string]interface{}),
	}
	s.transaction = s
	for _, opt := range opts {
		opt(s)
	}
	if s.start.IsZero() {
		s.start = time.Now().UTC()
	}
	return s
}

// StartChild starts a span parented to s in the same trace. The sampling
// decision is inherited.
func (s *Span) StartChild(op string, opts ...SpanOption) *Span {
	s.mu.RLock()
	child := &Span{
		traceID:      s.traceID,
		spanID:       newSpanID(),
		parentSpanID: s.spanID,
		op:           op,
		transaction:  s.transaction,
		tags:         make(map[string]string),
		data:         make(map[string]interface{}),
	}
	s.mu.RUnlock()

	for _, opt := range opts {
		opt(child)
	}
	// Sampling is fixed by the transaction.
	child.sampled = s.Sampled()
	if child.start.IsZero() {
		child.start = time.Now().UTC()
	}

	root := child.transaction
	root.mu.Lock()
	root.children = append(root.children, child)
	root.mu.Unlock()
	return child
}

// Finish records the end timestamp. Only the first call has an effect.
func (s *Span) Finish() {
	s.finishOnce.Do(func() {
		s.mu.Lock()
		s.end = time.Now().UTC()
		if s.status == "" {
			s.status = StatusOK
		}
		cb := s.onFinish
		s.mu.Unlock()

		if cb != nil {
			cb(s)
		}
	})
}

// SetHTTPStatus records code as the http.status_code tag and derives the span
// status from it.
func (s *Span) SetHTTPStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags["http.status_code"] = strconv.Itoa(code)
	s.status = StatusFromHTTPCode(code)
}

func (s *Span) SetStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *Span) SetTag(key, value string) {
	s.mu.Lock()
	s.tags[key] = value
	s.mu.Unlock()
}

func (s *Span) SetData(key string, value interface{}) {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()
}

func (s *Span) SetDescription(description string) {
	s.mu.Lock()
	s.description = description
	s.mu.Unlock()
}

// SetName renames the transaction. It has no effect on child spans.
func (s *Span) SetName(name string) {
	if !s.IsTransaction() {
		return
	}
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

func (s *Span) TraceID() string      { return s.traceID }
func (s *Span) SpanID() string       { return s.spanID }
func (s *Span) ParentSpanID() string { return s.parentSpanID }
func (s *Span) IsTransaction() bool  { return s.transaction == s }

// Transaction returns the root span of s's trace.
func (s *Span) Transaction() *Span { return s.transaction }

func (s *Span) Op() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.op
}

func (s *Span) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Span) Description() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.description
}

func (s *Span) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Span) Sampled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sampled
}

func (s *Span) StartTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// EndTime is zero until the span is finished.
func (s *Span) EndTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.end
}

func (s *Span) Finished() bool {
	return !s.EndTime().IsZero()
}

func (s *Span) Tag(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags[key]
}

func (s *Span) Data(key string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

// Children returns the spans started under this transaction, finished or not.
// It is empty for child spans.
func (s *Span) Children() []*Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Span, len(s.children))
	copy(out, s.children)
	return out
}

// ToTraceHeader renders s for outbound propagation as traceId-spanId-flag.
func (s *Span) ToTraceHeader() string {
	flag := "0"
	if s.Sampled() {
		flag = "1"
	}
	return s.traceID + "-" + s.spanID + "-" + flag
}

// TraceContext returns the event trace context pointing at s.
func (s *Span) TraceContext() *event.TraceContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &event.TraceContext{
		TraceID:      s.traceID,
		SpanID:       s.spanID,
		ParentSpanID: s.parentSpanID,
		Op:           s.op,
		Status:       string(s.status),
	}
}

// ToEvent builds the transaction event for a finished transaction. Children
// that were never finished are left out.
func (s *Span) ToEvent() *event.Event {
	ev := event.New()
	ev.Type = event.TypeTransaction
	ev.Trace = s.TraceContext()

	s.mu.RLock()
	ev.Transaction = s.name
	ev.StartTimestamp = s.start
	if !s.end.IsZero() {
		ev.Timestamp = s.end
	}
	for k, v := range s.tags {
		ev.Tags[k] = v
	}
	for k, v := range s.data {
		ev.Extra[k] = v
	}
	children := make([]*Span, len(s.children))
	copy(children, s.children)
	s.mu.RUnlock()

	for _, c := range children {
		if !c.Finished() {
			continue
		}
		ev.Spans = append(ev.Spans, c.snapshot())
	}
	return ev
}

func (s *Span) snapshot() event.Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := event.Span{
		TraceID:        s.traceID,
		SpanID:         s.spanID,
		ParentSpanID:   s.parentSpanID,
		Op:             s.op,
		Description:    s.description,
		Status:         string(s.status),
		StartTimestamp: s.start,
		Timestamp:      s.end,
	}
	if len(s.tags) > 0 {
		out.Tags = make(map[string]string, len(s.tags))
		for k, v := range s.tags {
			out.Tags[k] = v
		}
	}
	if len(s.data) > 0 {
		out.Data = make(map[string]interface{}, len(s.data))
		for k, v := range s.data {
			out.Data[k] = v
		}
	}
	return out
}
