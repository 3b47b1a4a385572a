package parallel

import "sync"

// Sink is an append-only collection safe for concurrent writers.
// Items keep insertion order, which for concurrent writers is completion order.
type Sink[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewSink creates a Sink with room for capacity items.
func NewSink[T any](capacity int) *Sink[T] {
	return &Sink[T]{items: make([]T, 0, capacity)}
}

// Add appends item.
func (s *Sink[T]) Add(item T) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
}

// Len returns the number of items added so far.
func (s *Sink[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns a copy of the collected items.
func (s *Sink[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
