package transport

import (
	"context"
	"sync"

	"github.com/aalemi-dev/reqscope/event"
)

// Memory keeps delivered events in memory.
type Memory struct {
	mu     sync.Mutex
	events []*event.Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Deliver(_ context.Context, events []*event.Event) error {
	m.mu.Lock()
	m.events = append(m.events, events...)
	m.mu.Unlock()
	return nil
}

// Events returns a copy of everything delivered so far.
func (m *Memory) Events() []*event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*event.Event(nil), m.events...)
}

// Transactions returns the delivered transaction events.
func (m *Memory) Transactions() []*event.Event {
	var out []*event.Event
	for _, ev := range m.Events() {
		if ev.IsTransaction() {
			out = append(out, ev)
		}
	}
	return out
}

// Errors returns the delivered events carrying exceptions.
func (m *Memory) Errors() []*event.Event {
	var out []*event.Event
	for _, ev := range m.Events() {
		if len(ev.Exceptions) > 0 {
			out = append(out, ev)
		}
	}
	return out
}

func (m *Memory) Reset() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}
