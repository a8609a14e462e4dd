// internal/app/system/notify/redis.go
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix  = "studyclub:"
	publishTimeout = 5 * time.Second
)

// RedisBroker fans events out through Redis pub/sub so every server
// instance sees every publish. Channel name is the party code under a
// fixed prefix.
type RedisBroker struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisBroker creates a Redis-backed broker. The client must already be
// connected (ping verified by the caller at startup).
func NewRedisBroker(client *redis.Client, logger *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, log: logger}
}

// Publish sends ev to the club's Redis channel. Instances with no local
// subscribers simply deliver to zero listeners.
func (b *RedisBroker) Publish(ctx context.Context, partyCode string, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return b.client.Publish(pctx, channelPrefix+partyCode, body).Err()
}

// Subscribe opens a Redis subscription for the club channel and bridges it
// onto an Event channel.
func (b *RedisBroker) Subscribe(ctx context.Context, partyCode string) (<-chan Event, func(), error) {
	subCtx, cancelCtx := context.WithCancel(context.Background())
	pubsub := b.client.Subscribe(subCtx, channelPrefix+partyCode)

	// Confirm the subscription before handing the channel to the caller so
	// a publish immediately after Subscribe is not lost.
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancelCtx()
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn("notify: bad event payload on redis channel",
						zap.String("party_code", partyCode),
						zap.Error(err))
					continue
				}
				select {
				case out <- ev:
				default:
					b.log.Warn("notify: dropping event for slow subscriber",
						zap.String("party_code", partyCode),
						zap.String("type", ev.Type))
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() { once.Do(cancelCtx) }
	return out, cancel, nil
}
