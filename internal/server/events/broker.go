package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/pkg/constants"
)

// Subscriber consumes events. Send must not block.
type Subscriber interface {
	Send(Event) error
	Close() error
}

// Broker queues published events and delivers them in order to every
// subscriber from its Run goroutine.
type Broker struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	queue       chan Event
	published   atomic.Int64
	dropped     atomic.Int64
	logger      *zerolog.Logger
}

// NewBroker creates a broker with a queue of constants.EventBufferSize.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		queue:  make(chan Event, constants.EventBufferSize),
		logger: logger,
	}
}

// Subscribe adds a subscriber. It may be called before Run.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, sub)
}

// Publish queues e, dropping it when the queue is full.
func (b *Broker) Publish(e Event) {
	select {
	case b.queue <- e:
		b.published.Add(1)
	default:
		b.dropped.Add(1)
		b.logger.Warn().Str("event_type", string(e.Type)).Msg("Event queue full, event dropped")
	}
}

// Run delivers queued events until ctx ends, then closes every subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.mu.Unlock()
			return

		case e := <-b.queue:
			b.mu.RLock()
			subs := slices.Clone(b.subscribers)
			b.mu.RUnlock()
			for _, sub := range subs {
				if err := sub.Send(e); err != nil {
					b.logger.Warn().Err(err).Str("event_type", string(e.Type)).Msg("Event delivery failed")
				}
			}
		}
	}
}

// Stats is the broker section of GET /api/v1/stats.
type Stats struct {
	Published   int64 `json:"published"`
	Dropped     int64 `json:"dropped"`
	Queued      int   `json:"queued"`
	Subscribers int   `json:"subscribers"`
}

// Stats reports queue activity.
func (b *Broker) Stats() Stats {
	b.mu.RLock()
	n := len(b.subscribers)
	b.mu.RUnlock()
	return Stats{
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
		Queued:      len(b.queue),
		Subscribers: n,
	}
}
