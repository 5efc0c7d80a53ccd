package scope

import (
	"sort"
	"sync"

	"github.com/aalemi-dev/reqscope/event"
	"github.com/aalemi-dev/reqscope/tracing"
)

// EventProcessor transforms an outgoing event. Returning nil drops the event.
type EventProcessor func(ev *event.Event) *event.Event

// Tag is one tag in registration order.
type Tag struct {
	Key   string
	Value string
}

// Extra is one extra-data entry in registration order.
type Extra struct {
	Key   string
	Value interface{}
}

// Scope is the mutable context attached to events captured during one unit
// of work. A clone starts from a frozen copy of everything visible in its
// parent at clone time; later writes on either side stay on that side.
type Scope struct {
	mu sync.RWMutex

	parent *Scope

	tags       cow[string]
	extra      cow[interface{}]
	processors []EventProcessor

	span            *tracing.Span
	user            *event.User
	level           event.Level
	fingerprint     []string
	request         *event.Request
	transactionName string
}

// New returns an empty root scope.
func New() *Scope {
	return &Scope{}
}

// Clone returns a child of s holding the data visible in s right now. Writes
// to the child never reach s, and writes to s after the clone never reach the
// child. Tags and extra are copied lazily, by whichever side writes first.
func (s *Scope) Clone() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Scope{
		parent:          s,
		tags:            s.tags.share(),
		extra:           s.extra.share(),
		processors:      s.processors[:len(s.processors):len(s.processors)],
		span:            s.span,
		user:            s.user,
		level:           s.level,
		fingerprint:     s.fingerprint,
		request:         s.request,
		transactionName: s.transactionName,
	}
}

// Parent returns the scope s was cloned from, or nil for a root scope. It is
// kept for identity checks only; reads never go through it.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Clear drops everything visible through s, including inherited data.
func (s *Scope) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = cow[string]{}
	s.extra = cow[interface{}]{}
	s.processors = nil
	s.span = nil
	s.user = nil
	s.level = ""
	s.fingerprint = nil
	s.request = nil
	s.transactionName = ""
}

func (s *Scope) SetTag(key, value string) {
	s.mu.Lock()
	s.tags.writable().set(key, value)
	s.mu.Unlock()
}

// SetTags sets every entry of tags, in key order.
func (s *Scope) SetTags(tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range sortedKeys(tags) {
		s.tags.writable().set(k, tags[k])
	}
}

func (s *Scope) RemoveTag(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags.get(key); ok {
		s.tags.writable().remove(key)
	}
}

func (s *Scope) Tag(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tags.get(key)
}

// Tags returns all tags of s in registration order.
func (s *Scope) Tags() []Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Tag, 0, s.tags.len())
	s.tags.each(func(k, v string) {
		out = append(out, Tag{Key: k, Value: v})
	})
	return out
}

func (s *Scope) SetExtra(key string, value interface{}) {
	s.mu.Lock()
	s.extra.writable().set(key, value)
	s.mu.Unlock()
}

// SetExtras sets every entry of extras, in key order.
func (s *Scope) SetExtras(extras map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range sortedKeys(extras) {
		s.extra.writable().set(k, extras[k])
	}
}

func (s *Scope) RemoveExtra(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.extra.get(key); ok {
		s.extra.writable().remove(key)
	}
}

// Extras returns all extra data of s in registration order.
func (s *Scope) Extras() []Extra {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Extra, 0, s.extra.len())
	s.extra.each(func(k string, v interface{}) {
		out = append(out, Extra{Key: k, Value: v})
	})
	return out
}

// AddEventProcessor appends p to the chain. Inherited processors run first.
func (s *Scope) AddEventProcessor(p EventProcessor) {
	if p == nil {
		return
	}
	s.mu.Lock()
	s.processors = append(s.processors, p)
	s.mu.Unlock()
}

// EventProcessors returns the chain of s in run order.
func (s *Scope) EventProcessors() []EventProcessor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]EventProcessor(nil), s.processors...)
}

// SetSpan makes span the active span of s. A nil span hides any inherited one.
func (s *Scope) SetSpan(span *tracing.Span) {
	s.mu.Lock()
	s.span = span
	s.mu.Unlock()
}

func (s *Scope) Span() *tracing.Span {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.span
}

func (s *Scope) SetUser(u event.User) {
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
}

func (s *Scope) User() *event.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Scope) SetLevel(level event.Level) {
	s.mu.Lock()
	s.level = level
	s.mu.Unlock()
}

func (s *Scope) Level() event.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

func (s *Scope) SetFingerprint(fp []string) {
	s.mu.Lock()
	s.fingerprint = append([]string(nil), fp...)
	s.mu.Unlock()
}

func (s *Scope) Fingerprint() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// SetRequest attaches the inbound request snapshot to events that have none.
func (s *Scope) SetRequest(r *event.Request) {
	s.mu.Lock()
	s.request = r
	s.mu.Unlock()
}

func (s *Scope) Request() *event.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.request
}

func (s *Scope) SetTransactionName(name string) {
	s.mu.Lock()
	s.transactionName = name
	s.mu.Unlock()
}

func (s *Scope) TransactionName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactionName
}

// ApplyToEvent merges the data of s into ev and runs the processor chain.
// Values already on ev win over scope tags and extra. It returns nil when a
// processor drops the event.
func (s *Scope) ApplyToEvent(ev *event.Event) *event.Event {
	if ev == nil {
		return nil
	}

	s.mu.RLock()
	if ev.Tags == nil {
		ev.Tags = make(map[string]string, s.tags.len())
	}
	s.tags.each(func(k, v string) {
		if _, ok := ev.Tags[k]; !ok {
			ev.Tags[k] = v
		}
	})
	if ev.Extra == nil {
		ev.Extra = make(map[string]interface{}, s.extra.len())
	}
	s.extra.each(func(k string, v interface{}) {
		if _, ok := ev.Extra[k]; !ok {
			ev.Extra[k] = v
		}
	})
	span, user, level := s.span, s.user, s.level
	fingerprint, request, name := s.fingerprint, s.request, s.transactionName
	processors := append([]EventProcessor(nil), s.processors...)
	s.mu.RUnlock()

	if ev.User == nil && user != nil {
		u := *user
		ev.User = &u
	}
	if level != "" {
		ev.Level = level
	}
	if len(ev.Fingerprint) == 0 && len(fingerprint) > 0 {
		ev.Fingerprint = append([]string(nil), fingerprint...)
	}
	if ev.Request == nil && request != nil {
		ev.Request = request
	}
	if span != nil {
		if ev.Trace == nil {
			ev.Trace = span.TraceContext()
		}
		if ev.Transaction == "" {
			ev.Transaction = span.Transaction().Name()
		}
	}
	if ev.Transaction == "" {
		ev.Transaction = name
	}

	// Processors may touch s, so they run without the lock.
	for _, p := range processors {
		ev = p(ev)
		if ev == nil {
			return nil
		}
	}
	return ev
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
