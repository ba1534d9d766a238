package access

import (
	"context"
	"log"
	"sync"
)

// Queue decouples request handling from slow recorders. Record never blocks:
// when the buffer is full the event is dropped and counted.
type Queue struct {
	next   Recorder
	events chan Event

	mu      sync.Mutex
	closed  bool
	dropped int

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewQueue(next Recorder, size int) *Queue {
	if size <= 0 {
		size = 1024
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		next:   next,
		events: make(chan Event, size),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) Record(_ context.Context, ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	select {
	case q.events <- ev:
	default:
		q.dropped++
		if q.dropped == 1 || q.dropped%1000 == 0 {
			log.Printf("access: queue full, dropped=%d", q.dropped)
		}
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close stops accepting events and waits until the buffered ones are handed
// to the next recorder, or ctx expires.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		q.cancel()
		return ctx.Err()
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for ev := range q.events {
		q.next.Record(q.ctx, ev)
	}
}
