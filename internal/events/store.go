package events

import (
	"context"
	"sync"
)

// MemoryStore keeps events for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewMemoryStore returns a store retaining at most limit events; limit <= 0 keeps everything.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit}
}

// Append implements EventStore.
func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	if s.limit > 0 && len(s.events) > s.limit {
		s.events = append([]Event(nil), s.events[len(s.events)-s.limit:]...)
	}
	return nil
}

// List returns recorded events, optionally filtered by topic.
func (s *MemoryStore) List(topic string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if topic == "" || ev.Topic == topic {
			out = append(out, ev)
		}
	}
	return out
}
