package storage

import (
	"context"
	"sync"
)

const watchBuffer = 64

// Watchers fans changes out to subscribed channels. A slow subscriber loses
// changes instead of blocking writers.
type Watchers struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Change
}

func NewWatchers() *Watchers {
	return &Watchers{subs: make(map[int]chan Change)}
}

func (w *Watchers) Subscribe(ctx context.Context) <-chan Change {
	ch := make(chan Change, watchBuffer)

	w.mu.Lock()
	id := w.next
	w.next++
	w.subs[id] = ch
	w.mu.Unlock()

	go func() {
		<-ctx.Done()

		w.mu.Lock()
		delete(w.subs, id)
		close(ch)
		w.mu.Unlock()
	}()

	return ch
}

func (w *Watchers) Notify(changes ...Change) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subs {
		for _, c := range changes {
			select {
			case ch <- c:
			default:
			}
		}
	}
}
