package queue

import "errors"

// ErrQueueFull is returned by Enqueue when the queue has no free capacity.
var ErrQueueFull = errors.New("queue is full")

// Queue represents a basic queue.
// Implementations must be thread-safe.
type Queue interface {
	// Enqueue adds an item to the end of the queue without blocking.
	Enqueue(item interface{}) error
	// ReadAllMessages drains every pending item in arrival order.
	ReadAllMessages() ([]interface{}, error)
	Size() int
	ClearQueue()
}
