// Package input holds the single shared input value observed by every slot.
package input

import "sync"

// Reader is the read side of the shared input, the only part slots depend on.
type Reader interface {
	Read() string
}

// Listener is notified synchronously with the new value after each Write.
type Listener func(text string)

type subscription struct {
	id uint64
	fn Listener
}

// Store is a publish/subscribe value cell holding the current input text.
//
// Writes are serialized: the value is replaced and every subscriber is notified
// before the next Write is applied. Listeners must not call Write.
type Store struct {
	writeMu sync.Mutex // serializes Write + notification

	mu     sync.RWMutex
	text   string
	subs   []subscription
	nextID uint64
}

// New creates a Store holding initial.
func New(initial string) *Store {
	return &Store{text: initial}
}

// Read returns the latest written value.
func (s *Store) Read() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// Write replaces the value and notifies all current subscribers in subscription order.
// Empty or whitespace-only text is legal; emptiness is checked at trigger time.
func (s *Store) Write(text string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.text = text
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(text)
	}
}

// Subscribe registers fn and returns a function that removes it.
// The returned function is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}
