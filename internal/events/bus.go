// Package events dispatches editorial events to in-process subscribers
// (notifications, search indexing, cache invalidation).
package events

import (
	"context"
	"sync"
	"time"

	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/pkg/logger"
	"github.com/rs/zerolog"
)

// Topics
const (
	TopicStatusChanged   = "article.status_changed"
	TopicArticleSaved    = "article.saved"
	TopicArticleDeleted  = "article.deleted"
	TopicCommentAdded    = "comment.added"
	TopicCommentResolved = "comment.resolved"
	TopicCategoryChanged = "category.changed"
)

// Event is one editorial occurrence. Fields not relevant to the topic are nil.
type Event struct {
	Topic     string
	Actor     *domain.Actor
	Article   *domain.Article
	History   *domain.WorkflowHistory
	Comment   *domain.EditorialComment
	Timestamp time.Time
}

// Handler receives events. The context is detached from the originating request.
type Handler func(ctx context.Context, event Event)

// Publisher is what services depend on
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type subscription struct {
	name    string
	handler Handler
}

// Bus is a synchronous topic fan-out. A panicking handler is logged and skipped.
type Bus struct {
	subscribers map[string][]subscription
	mu          sync.RWMutex
	log         zerolog.Logger
	async       bool
	wg          sync.WaitGroup
}

// NewBus creates a bus. When async is true Publish returns immediately and
// handlers run on their own goroutine; Wait blocks until they finish.
func NewBus(async bool) *Bus {
	return &Bus{
		subscribers: make(map[string][]subscription),
		log:         logger.WithComponent("events"),
		async:       async,
	}
}

// Subscribe registers handler under name for topic
func (b *Bus) Subscribe(name, topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[topic] = append(b.subscribers[topic], subscription{name: name, handler: handler})
	b.log.Debug().Str("subscriber", name).Str("topic", topic).Msg("subscribed")
}

// Unsubscribe removes every subscription registered under name
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subs := range b.subscribers {
		var remaining []subscription
		for _, s := range subs {
			if s.name != name {
				remaining = append(remaining, s)
			}
		}
		if len(remaining) == 0 {
			delete(b.subscribers, topic)
		} else {
			b.subscribers[topic] = remaining
		}
	}
}

// Publish delivers event to every subscriber of event.Topic
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subscribers[event.Topic]))
	copy(subs, b.subscribers[event.Topic])
	b.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// handlers must outlive the request that triggered them
	ctx = context.WithoutCancel(ctx)

	if !b.async {
		b.dispatch(ctx, subs, event)
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.dispatch(ctx, subs, event)
	}()
}

// Wait blocks until in-flight async deliveries finish
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) dispatch(ctx context.Context, subs []subscription, event Event) {
	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error().
						Str("topic", event.Topic).
						Str("subscriber", s.name).
						Interface("panic", r).
						Msg("event handler panicked")
				}
			}()
			s.handler(ctx, event)
		}()
	}
}

// Subscriptions returns topic -> subscriber names
func (b *Bus) Subscriptions() map[string][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make(map[string][]string)
	for topic, subs := range b.subscribers {
		for _, s := range subs {
			result[topic] = append(result[topic], s.name)
		}
	}
	return result
}

// Nop discards events
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
