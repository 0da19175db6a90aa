package events

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jaineet17/AWS-File-Processing-System/internal/logging"
)

const memoryBufferSize = 64

type subscription struct {
	events chan WriteEvent
	done   chan struct{}
	once   sync.Once
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// MemoryBus fans events out to in-process subscribers. Publish never waits
// on a subscriber: an event is dropped for a subscriber whose buffer is full,
// and dropped outright while nobody is subscribed.
type MemoryBus struct {
	mu      sync.Mutex
	subs    map[*subscription]struct{}
	closed  bool
	dropped atomic.Int64
	logger  logging.Logger
}

func NewMemoryBus(logger logging.Logger) *MemoryBus {
	return &MemoryBus{
		subs:   make(map[*subscription]struct{}),
		logger: logger.With("module", "memory_bus"),
	}
}

func (b *MemoryBus) snapshot() ([]*subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}
	subs := make([]*subscription, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	return subs, nil
}

// Publish hands ev to every current subscriber that has buffer space.
func (b *MemoryBus) Publish(ctx context.Context, ev WriteEvent) error {
	subs, err := b.snapshot()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		b.dropped.Add(1)
		b.logger.Warn(ctx, "event dropped, no subscriber", "record_id", ev.RecordID)
		return nil
	}
	for _, s := range subs {
		select {
		case s.events <- ev:
		case <-s.done:
		default:
			b.dropped.Add(1)
			b.logger.Warn(ctx, "event dropped, subscriber buffer full", "record_id", ev.RecordID)
		}
	}
	return nil
}

// Dropped returns how many deliveries were dropped since the bus was created.
func (b *MemoryBus) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribe delivers events to h until ctx is done or the bus is closed.
// Handler errors are logged; there is no redelivery in memory.
func (b *MemoryBus) Subscribe(ctx context.Context, h Handler) error {
	s := &subscription{
		events: make(chan WriteEvent, memoryBufferSize),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrBusClosed
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		s.stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case ev := <-s.events:
			if err := h(ctx, ev); err != nil {
				b.logger.Error(ctx, "event handler failed", "record_id", ev.RecordID, "error", err)
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *MemoryBus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close stops all subscriptions and rejects further publishes.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for s := range b.subs {
		s.stop()
	}
	return nil
}
