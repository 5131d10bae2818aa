package events

import (
	"sync"
	"sync/atomic"
)

// Clients is the set of per-connection queues behind a transport. It
// implements Subscriber: Send copies an event into every queue and Close
// ends every queue. A client whose queue is full misses the event.
type Clients struct {
	mu      sync.Mutex
	queues  map[chan Event]struct{}
	closed  bool
	dropped atomic.Int64
}

// Attach adds a queue of the given capacity. It reports false once the set
// is closed.
func (c *Clients) Attach(capacity int) (<-chan Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, false
	}
	if c.queues == nil {
		c.queues = make(map[chan Event]struct{})
	}
	q := make(chan Event, capacity)
	c.queues[q] = struct{}{}
	return q, true
}

// Detach removes and closes a queue returned by Attach. Detaching twice, or
// after Close, is a no-op.
func (c *Clients) Detach(q <-chan Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for own := range c.queues {
		if own == q {
			delete(c.queues, own)
			close(own)
			return
		}
	}
}

// Send delivers e to every attached queue without blocking.
func (c *Clients) Send(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for q := range c.queues {
		select {
		case q <- e:
		default:
			c.dropped.Add(1)
		}
	}
	return nil
}

// Close closes every queue and refuses new ones.
func (c *Clients) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for q := range c.queues {
		close(q)
	}
	c.queues = nil
	return nil
}

// ClientCount returns the number of attached queues.
func (c *Clients) ClientCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queues)
}

// Dropped returns how many deliveries were skipped on full queues.
func (c *Clients) Dropped() int64 {
	return c.dropped.Load()
}
