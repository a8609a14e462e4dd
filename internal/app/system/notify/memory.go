// internal/app/system/notify/memory.go
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind starts losing events; SSE clients resync by
// re-fetching club state on reconnect.
const subscriberBuffer = 16

// MemoryBroker is the in-process Broker. Correct only when exactly one
// server instance is running; multi-instance deployments use RedisBroker.
type MemoryBroker struct {
	mu   sync.RWMutex
	subs map[string]map[*memorySub]struct{} // party code -> subscribers
	log  *zap.Logger
}

type memorySub struct {
	ch   chan Event
	once sync.Once
}

// NewMemoryBroker creates an in-process broker.
func NewMemoryBroker(logger *zap.Logger) *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[string]map[*memorySub]struct{}),
		log:  logger,
	}
}

// Publish sends ev to every subscriber of partyCode. Events for codes with
// no subscribers are dropped.
func (b *MemoryBroker) Publish(ctx context.Context, partyCode string, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[partyCode] {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber buffer full; drop rather than block the writer.
			b.log.Warn("notify: dropping event for slow subscriber",
				zap.String("party_code", partyCode),
				zap.String("type", ev.Type))
		}
	}
	return nil
}

// Subscribe registers a new viewer for partyCode.
func (b *MemoryBroker) Subscribe(ctx context.Context, partyCode string) (<-chan Event, func(), error) {
	sub := &memorySub{ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	if b.subs[partyCode] == nil {
		b.subs[partyCode] = make(map[*memorySub]struct{})
	}
	b.subs[partyCode][sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			b.mu.Lock()
			delete(b.subs[partyCode], sub)
			if len(b.subs[partyCode]) == 0 {
				delete(b.subs, partyCode)
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel, nil
}

// SubscriberCount returns the number of open subscriptions for a code.
func (b *MemoryBroker) SubscriberCount(partyCode string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[partyCode])
}
