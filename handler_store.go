package iotstream

import "github.com/ecotrack/iotstream/internal/sync"

type handlerEntry[T any] struct {
	f    T
	once bool
}

type handlerStore[T any] struct {
	mu       sync.Mutex
	handlers []*handlerEntry[T]
}

func newHandlerStore[T any]() *handlerStore[T] {
	return new(handlerStore[T])
}

func (s *handlerStore[T]) on(f T) (off func()) {
	return s.add(&handlerEntry[T]{f: f})
}

func (s *handlerStore[T]) once(f T) (off func()) {
	return s.add(&handlerEntry[T]{f: f, once: true})
}

func (s *handlerStore[T]) add(e *handlerEntry[T]) func() {
	s.mu.Lock()
	s.handlers = append(s.handlers, e)
	s.mu.Unlock()
	return func() { s.remove(e) }
}

func (s *handlerStore[T]) remove(e *handlerEntry[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.handlers {
		if h == e {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return
		}
	}
}

func (s *handlerStore[T]) offAll() {
	s.mu.Lock()
	s.handlers = nil
	s.mu.Unlock()
}

// getAll returns the handlers in registration order and forgets the once handlers.
func (s *handlerStore[T]) getAll() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]T, 0, len(s.handlers))
	kept := s.handlers[:0:0]
	for _, h := range s.handlers {
		all = append(all, h.f)
		if !h.once {
			kept = append(kept, h)
		}
	}
	s.handlers = kept
	return all
}
