// Package bus carries full report snapshots between the two surfaces.
//
// Delivery is synchronous: Publish returns after every other subscriber's
// handler has run, in the order the subscribers registered. The publishing
// owner never receives its own message.
package bus

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/logger"
)

var (
	// ErrDuplicateSubscriber indicates the owner already holds a subscription.
	ErrDuplicateSubscriber = errors.New("owner already subscribed")

	// ErrClosed indicates the bus has been shut down.
	ErrClosed = errors.New("bus closed")
)

// Message is one delivery on the bus.
type Message struct {
	// ID uniquely identifies the publish.
	ID string

	// Source is the owner that published the message.
	Source string

	// Payload is the serialised report message.
	Payload []byte
}

// Handler receives messages for one subscriber.
type Handler func(msg Message)

// Option customises Bus construction.
type Option func(*Bus)

// WithIDGenerator overrides message ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(b *Bus) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// Bus is the application-scoped report channel.
type Bus struct {
	mu          sync.RWMutex
	subscribers []*subscriber
	closed      bool
	newID       func() string
}

// Subscription represents an active owner subscription.
type Subscription struct {
	owner  string
	cancel func()
}

// Owner returns the owner name the subscription was registered under.
func (s *Subscription) Owner() string {
	return s.owner
}

// Close terminates the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	if s != nil && s.cancel != nil {
		s.cancel()
	}
}

type subscriber struct {
	owner   string
	handler Handler
}

// New creates a bus. Close must be called when the application shuts down.
func New(opts ...Option) *Bus {
	b := &Bus{
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Subscribe registers handler under owner.
// Each owner may hold one subscription at a time.
func (b *Bus) Subscribe(owner string, handler Handler) (*Subscription, error) {
	owner = normaliseOwner(owner)
	if owner == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is required", domain.ErrInvalidInput)
	}

	sub := &subscriber{owner: owner, handler: handler}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	for _, existing := range b.subscribers {
		if existing.owner == owner {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscriber, owner)
		}
	}
	b.subscribers = append(b.subscribers, sub)
	logger.Debug("bus: %s subscribed", owner)

	var once sync.Once
	return &Subscription{
		owner: owner,
		cancel: func() {
			once.Do(func() { b.remove(sub) })
		},
	}, nil
}

// Publish sends a full report snapshot from source to every other subscriber.
func (b *Bus) Publish(source string, doc domain.Document) error {
	payload, err := domain.EncodeReportMessage(doc)
	if err != nil {
		return err
	}
	return b.PublishRaw(source, payload)
}

// PublishRaw sends payload as-is. Receivers validate it.
func (b *Bus) PublishRaw(source string, payload []byte) error {
	source = normaliseOwner(source)

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	targets := make([]*subscriber, 0, len(b.subscribers))
	for _, sub := range b.subscribers {
		if sub.owner != source {
			targets = append(targets, sub)
		}
	}
	b.mu.RUnlock()

	msg := Message{ID: b.newID(), Source: source, Payload: payload}
	logger.Debug("bus: %s published %s to %d subscriber(s)", source, msg.ID, len(targets))

	for _, sub := range targets {
		sub.deliver(msg)
	}
	return nil
}

// Owners returns the subscribed owners in registration order.
func (b *Bus) Owners() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	owners := make([]string, len(b.subscribers))
	for i, sub := range b.subscribers {
		owners[i] = sub.owner
	}
	return owners
}

// Close drops every subscription and rejects further use.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subscribers = nil
}

func (b *Bus) remove(target *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == target {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			logger.Debug("bus: %s unsubscribed", sub.owner)
			return
		}
	}
}

func (s *subscriber) deliver(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("bus: handler for %s panicked on %s: %v", s.owner, msg.ID, r)
		}
	}()
	s.handler(msg)
}

func normaliseOwner(owner string) string {
	return strings.TrimSpace(strings.ToLower(owner))
}
