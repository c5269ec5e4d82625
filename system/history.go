package system

import (
	"errors"
	"sync"
)

// Queue represents a bounded FIFO queue: once full, the oldest item is
// dropped to make room for a new one.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	maxSize int
}

// NewQueue creates a new empty queue.
func NewQueue[T any](maxSize int) *Queue[T] {
	return &Queue[T]{maxSize: maxSize}
}

// Enqueue adds an item to the rear of the queue.
func (q *Queue[T]) Enqueue(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.maxSize <= 0 {
		return
	}
	if len(q.items) == q.maxSize {
		q.items = q.items[1:]
	}
	q.items = append(q.items, item)
}

// Dequeue removes and returns the item from the front of the queue.
func (q *Queue[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, errors.New("queue is empty")
	}
	front := q.items[0]
	q.items = q.items[1:]
	return front, nil
}

// Items returns a copy of the content, oldest first
func (q *Queue[T]) Items() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]T(nil), q.items...)
}

// Len - current number of elements
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsEmpty checks if the queue is empty.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Clear drops every element
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}
