package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/internal/core/domain/bulletin"
	"github.com/newriverone/portal/internal/core/ports"
)

// PostBus distributes bulletin insert events over a named Redis pub/sub
// channel. Delivery is in publish order per channel; subscribers that
// connect late simply miss earlier events, the initial query covers those.
type PostBus struct {
	client  *redis.Client
	channel string
	logger  *logrus.Logger
}

func NewPostBus(client *redis.Client, channel string, logger *logrus.Logger) *PostBus {
	return &PostBus{client: client, channel: channel, logger: logger}
}

// Publish announces a committed post to every subscriber.
func (b *PostBus) Publish(ctx context.Context, post *bulletin.Post) error {
	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to encode post event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish post event: %w", err)
	}
	return nil
}

// Subscribe opens a live channel on insert events. The returned handle must
// be closed to release the pub/sub connection.
func (b *PostBus) Subscribe(ctx context.Context) (ports.PostSubscription, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	// Confirm the subscription before handing out the channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	sub := &postSubscription{
		pubsub: pubsub,
		events: make(chan bulletin.Post, 16),
		quit:   make(chan struct{}),
		logger: b.logger,
	}
	go sub.loop()
	return sub, nil
}

type postSubscription struct {
	pubsub *redis.PubSub
	events chan bulletin.Post
	quit   chan struct{}
	once   sync.Once
	logger *logrus.Logger
}

func (s *postSubscription) loop() {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		var post bulletin.Post
		if err := json.Unmarshal([]byte(msg.Payload), &post); err != nil {
			if s.logger != nil {
				s.logger.WithError(err).Warn("pubsub: dropping malformed post event")
			}
			continue
		}
		select {
		case s.events <- post:
		case <-s.quit:
			return
		}
	}
}

func (s *postSubscription) Events() <-chan bulletin.Post {
	return s.events
}

// Close releases the pub/sub connection. Events is closed once the
// delivery loop drains, so no event is delivered after close.
func (s *postSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.quit)
		err = s.pubsub.Close()
	})
	return err
}
