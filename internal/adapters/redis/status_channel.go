// Package redis provides Redis-based adapters for the photo pipeline.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/target/photo-pipeline/internal/core"
	"github.com/target/photo-pipeline/internal/domain/model"
)

// StatusChannel publishes photo status events over Redis pub/sub.
// Delivery is fire-and-forget: events are not stored and subscribers that are
// offline at publish time never see them.
type StatusChannel struct {
	client  redis.UniversalClient
	channel string
}

var _ core.StatusChannel = (*StatusChannel)(nil)

// NewStatusChannel creates a StatusChannel on model.StatusChannel.
func NewStatusChannel(client redis.UniversalClient) *StatusChannel {
	return NewStatusChannelWithName(client, model.StatusChannel)
}

// NewStatusChannelWithName creates a StatusChannel publishing on a custom channel.
func NewStatusChannelWithName(client redis.UniversalClient, channel string) *StatusChannel {
	return &StatusChannel{client: client, channel: channel}
}

// Name returns the pub/sub channel events go to.
func (s *StatusChannel) Name() string {
	return s.channel
}

// Publish sends the event as JSON.
func (s *StatusChannel) Publish(ctx context.Context, event model.StatusEvent) error {
	if event.UserID == "" {
		return errors.New("status event without userId")
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe decodes events from the channel until ctx is done. Messages that
// are not valid status events are dropped.
func (s *StatusChannel) Subscribe(ctx context.Context) (<-chan model.StatusEvent, error) {
	sub := s.client.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan model.StatusEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev model.StatusEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
