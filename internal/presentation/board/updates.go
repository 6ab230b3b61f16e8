package board

import (
	"sync"

	"github.com/aretw0/dreamboard/pkg/domain"
)

// Subscriber is the part of the board that publishes slot updates.
type Subscriber interface {
	Subscribe(fn func(domain.SlotUpdate)) (unsubscribe func())
}

// Updates forwards slot updates into a channel until stop is called.
// Sends block until the UI reads them or stop is called, so no update is lost.
func Updates(s Subscriber) (<-chan domain.SlotUpdate, func()) {
	ch := make(chan domain.SlotUpdate, 32)
	done := make(chan struct{})
	unsubscribe := s.Subscribe(func(u domain.SlotUpdate) {
		select {
		case ch <- u:
		case <-done:
		}
	})

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			// Release blocked senders before unsubscribing.
			close(done)
			unsubscribe()
		})
	}
}
