package progress

import (
	"context"
	"sync"
)

// watcher fans a latest-value stream out to subscribers. Every subscriber
// channel holds at most one pending value; a newer snapshot replaces an
// unread older one, so new and slow subscribers always see the most recent
// state (replay-latest).
type watcher[T any] struct {
	mu   sync.Mutex
	last T
	set  bool
	subs map[chan T]struct{}
}

func newWatcher[T any]() *watcher[T] {
	return &watcher[T]{subs: make(map[chan T]struct{})}
}

func (w *watcher[T]) publish(v T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = v
	w.set = true
	for ch := range w.subs {
		select {
		case <-ch: // drop the stale pending value
		default:
		}
		ch <- v
	}
}

func (w *watcher[T]) subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	w.mu.Lock()
	w.subs[ch] = struct{}{}
	if w.set {
		ch <- w.last
	}
	w.mu.Unlock()

	go func() {
		<-ctx.Done()
		w.mu.Lock()
		delete(w.subs, ch)
		w.mu.Unlock()
	}()
	return ch
}
