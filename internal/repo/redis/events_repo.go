package redis

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

const changeChannelPrefix = "changes:"

// EventsRepo is the pub/sub leg of the collection change feed. One message
// per write, payload is the collection name; watchers re-read the list on
// every message, so lost messages only delay a snapshot, never corrupt one.
type EventsRepo struct {
	client *goredis.Client
}

func NewEventsRepo(client *goredis.Client) *EventsRepo {
	return &EventsRepo{client: client}
}

func (r *EventsRepo) Publish(ctx context.Context, collection string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if collection == "" {
		return fmt.Errorf("collection is required")
	}

	if err := r.client.Publish(ctx, changeChannel(collection), collection).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}

	return nil
}

// Subscribe returns a channel that receives one value per change event and a
// cancel func that tears the subscription down. Cancel is safe to call more
// than once; the channel is closed after cancellation.
func (r *EventsRepo) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	if r.client == nil {
		return nil, nil, fmt.Errorf("redis client is nil")
	}
	if collection == "" {
		return nil, nil, fmt.Errorf("collection is required")
	}

	pubsub := r.client.Subscribe(ctx, changeChannel(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe to change channel: %w", err)
	}

	events := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(events)
		ch := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case events <- struct{}{}:
				default:
					// A pending event already forces a re-read; coalesce.
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	return events, cancel, nil
}

func changeChannel(collection string) string {
	return changeChannelPrefix + collection
}
