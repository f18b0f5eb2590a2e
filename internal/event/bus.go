package event

import (
	"reelsd/internal/models"
	"reelsd/internal/providers"
	"sync"
)

// SubscriberQueueSize bounds each subscriber's backlog of undelivered notices.
const SubscriberQueueSize = 32

type SubscriberId int

type HandlerFunc func(models.Notice)

// Notifier is the publishing side of the bus.
type Notifier interface {
	Notify(n models.Notice)
}

type BusInterface interface {
	Notifier
	Subscribe() (SubscriberId, <-chan models.Notice)
	SubscribeFunc(handler HandlerFunc) SubscriberId
	Unsubscribe(id SubscriberId)
	Stop()
}

type subscriber struct {
	ch     chan models.Notice
	closed bool
}

// Bus fans notices out to every subscriber. A subscriber that does not keep
// up loses notices instead of stalling the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[SubscriberId]*subscriber
	lastSubId   SubscriberId
	logger      providers.Logger
}

func NewBus(logger providers.Logger) BusInterface {
	return &Bus{
		subscribers: make(map[SubscriberId]*subscriber),
		logger:      logger,
	}
}

func (b *Bus) Subscribe() (SubscriberId, <-chan models.Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSubId++
	sub := &subscriber{ch: make(chan models.Notice, SubscriberQueueSize)}
	b.subscribers[b.lastSubId] = sub
	return b.lastSubId, sub.ch
}

// SubscribeFunc runs handler on its own goroutine until the subscription ends.
func (b *Bus) SubscribeFunc(handler HandlerFunc) SubscriberId {
	id, ch := b.Subscribe()
	go func() {
		for n := range ch {
			handler(n)
		}
	}()
	return id
}

func (b *Bus) Unsubscribe(id SubscriberId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		sub.close()
	}
}

func (b *Bus) Notify(n models.Notice) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, sub := range b.subscribers {
		select {
		case sub.ch <- n:
		default:
			b.logger.Warnf(providers.TypeApp, "Subscriber %d is full, dropping %s notice", id, n.Kind)
		}
	}
}

// Stop closes every subscription. The bus stays usable afterwards.
func (b *Bus) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		sub.close()
		delete(b.subscribers, id)
	}
}

func (s *subscriber) close() {
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
