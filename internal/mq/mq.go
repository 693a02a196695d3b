package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mg3/promag-api/config"
	"github.com/mg3/promag-api/types"
)

const publishTimeout = 5 * time.Second

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Open connects the configured backend. It returns nil, nil when events are disabled.
func Open(ctx context.Context, cfg config.EventsConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// Notifier publishes change events on a channel. Delivery is best effort
// and runs in the background: failures are logged and never reach the caller.
type Notifier struct {
	backend Backend
	channel string
	log     *zap.Logger
	pending sync.WaitGroup
}

func NewNotifier(backend Backend, channel string, log *zap.Logger) *Notifier {
	return &Notifier{backend: backend, channel: channel, log: log}
}

// Notify queues event for publishing and returns immediately. Each publish
// gets its own timeout and ignores the request context's cancellation, so a
// client hanging up does not drop the event.
func (n *Notifier) Notify(ctx context.Context, event types.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		n.log.Sugar().Warnw("encode change event failed", "entity", event.Entity, "error", err)
		return
	}

	attrs := map[string]string{
		"entity": event.Entity,
		"action": string(event.Action),
	}
	ctx = context.WithoutCancel(ctx)

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()

		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		if _, err := n.backend.Publish(ctx, n.channel, data, attrs); err != nil {
			n.log.Sugar().Warnw("publish change event failed",
				"channel", n.channel,
				"entity", event.Entity,
				"action", event.Action,
				"key", event.Key,
				"error", err,
			)
		}
	}()
}

// Wait blocks until every queued publish has finished.
func (n *Notifier) Wait() {
	n.pending.Wait()
}

// DecodeChangeEvent parses a message published by Notifier.
func DecodeChangeEvent(msg Message) (types.ChangeEvent, error) {
	var event types.ChangeEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return types.ChangeEvent{}, fmt.Errorf("decode change event %s: %w", msg.ID, err)
	}
	return event, nil
}
