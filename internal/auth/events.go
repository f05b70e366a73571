package auth

import (
	"sync"
	"time"
)

// EventType classifies an auth-state change.
type EventType string

const (
	// EventSignedIn is emitted after a successful authentication.
	EventSignedIn EventType = "signed_in"
	// EventSignedOut is emitted when a session is terminated.
	EventSignedOut EventType = "signed_out"
)

// Event is a single auth-state change notification.
type Event struct {
	Type  EventType
	Email string
	At    time.Time
}

// broadcaster fans auth events out to subscribers. Subscriptions carry
// an explicit unsubscribe so consumers tie them to their own lifecycle
// instead of leaking them.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		subs: make(map[int]chan Event),
	}
}

func (b *broadcaster) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	// closing the channel ends a ranging consumer; publish holds the
	// same lock, so no send can race the close
	unsubscribe := func() {
		b.mu.Lock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
		b.mu.Unlock()
	}

	return ch, unsubscribe
}

// publish delivers an event to every subscriber. Slow consumers drop
// events rather than block the auth path.
func (b *broadcaster) publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
