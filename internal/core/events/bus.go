package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const TopicPermissionChanged = "permission.changed"

type Event interface {
	Topic() string
	OccurredAt() time.Time
}

// PermissionChanged is published after every override mutation, whether a
// single toggle or a preset application.
type PermissionChanged struct {
	UserID int64
	At     time.Time
}

func (e PermissionChanged) Topic() string         { return TopicPermissionChanged }
func (e PermissionChanged) OccurredAt() time.Time { return e.At }

type HandlerFunc func(ctx context.Context, event Event) error

// Bus is a small in-process publish/subscribe dispatcher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	logger   *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
}

func (b *Bus) Subscribe(topic string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	b.logger.Debug("event handler registered",
		"topic", topic,
		"total_handlers", len(b.handlers[topic]))
}

// Publish runs every handler for the event's topic synchronously, in
// registration order, and stops on the first failure. Mutations rely on
// this so cache invalidation completes before the write returns.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Topic()]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers for topic", "topic", event.Topic())
		return nil
	}

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				"topic", event.Topic(),
				"error", err)
			return fmt.Errorf("handler failed for topic %s: %w", event.Topic(), err)
		}
	}

	return nil
}
