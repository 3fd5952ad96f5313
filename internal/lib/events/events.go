package events

import (
	"sync"
	"time"
)

type Kind string

const (
	SessionInvalidated Kind = "session.invalidated"
	TokenRefreshing    Kind = "token.refreshing"
	TokenRefreshed     Kind = "token.refreshed"
	SessionChanged     Kind = "session.changed"
)

type Event struct {
	Kind   Kind
	Detail string
	At     time.Time
}

// Bus is an in-process publish/subscribe hub. Publish never blocks: a
// subscriber whose buffer is full misses the event. Invalidation
// subscribers are the exception, see SubscribeInvalidations.
type Bus struct {
	mu            sync.RWMutex
	next          int
	subs          map[int]chan Event
	invalidations map[int]chan Event
}

func NewBus() *Bus {
	return &Bus{
		subs:          make(map[int]chan Event),
		invalidations: make(map[int]chan Event),
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; calling it twice is safe.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	return b.subscribe(b.subs, buffer)
}

// SubscribeInvalidations delivers session.invalidated only. The channel
// holds one pending event and further ones coalesce into it, so a reader
// that falls behind still learns that the session ended.
func (b *Bus) SubscribeInvalidations() (<-chan Event, func()) {
	return b.subscribe(b.invalidations, 1)
}

func (b *Bus) subscribe(set map[int]chan Event, buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	set[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(set, id)
			close(ch)
			b.mu.Unlock()
		})
	}
}

func (b *Bus) Publish(kind Kind, detail string) {
	ev := Event{Kind: kind, Detail: detail, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}

	if kind != SessionInvalidated {
		return
	}
	for _, ch := range b.invalidations {
		select {
		case ch <- ev:
		default:
			// one is already pending
		}
	}
}
