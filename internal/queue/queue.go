package queue

import (
	"sync"

	"vaultwatch/internal/model"
)

// EventQueue is an unbounded FIFO buffer between the listener and the
// processor. The listener appends, the processor removes from the front;
// both run on their own goroutines, so access is mutex-protected.
type EventQueue struct {
	mu     sync.Mutex
	events []model.QueuedEvent
}

func New() *EventQueue {
	return &EventQueue{}
}

// Push appends an event to the tail.
func (q *EventQueue) Push(ev model.QueuedEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Shift removes and returns the head event. The second return value is false
// when the queue is empty.
func (q *EventQueue) Shift() (model.QueuedEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return model.QueuedEvent{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
