// Package events publishes report lifecycle notifications on a Redis
// channel so other processes (notifiers, dashboards) can follow them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event types
const (
	ReportCreated       = "report.created"
	ReportStatusChanged = "report.status_changed"
)

// Event is the message body published for every report change.
type Event struct {
	Type       string    `json:"type"`
	ReportID   string    `json:"reportId"`
	Status     string    `json:"status"`
	Category   string    `json:"category,omitempty"`
	Reviewer   string    `json:"reviewer,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher publishes events as JSON on a single channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}

// Subscribe waits for the subscription to be confirmed, then decodes
// events from the channel until ctx is done, when the returned channel is
// closed. Messages that fail to decode are skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context) (<-chan Event, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", p.channel, err)
	}
	out := make(chan Event)

	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
