package events

import (
	"context"
	"sync"
	"time"
)

type Event struct {
	Type       string    `json:"type"`
	EntityID   uint      `json:"id"`
	ActorID    uint      `json:"actor_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Published struct {
	Topic string
	Key   string
	Event any
}

// Memory keeps published events in order. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	events []Published
}

func (m *Memory) PublishEvent(_ context.Context, topic, key string, event any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Published{Topic: topic, Key: key, Event: event})
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Events() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Published, len(m.events))
	copy(out, m.events)
	return out
}

// Types returns the Type of every recorded Event, in publish order.
func (m *Memory) Types() []string {
	var out []string
	for _, p := range m.Events() {
		if e, ok := p.Event.(Event); ok {
			out = append(out, e.Type)
		}
	}
	return out
}
