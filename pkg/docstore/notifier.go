package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Notifier carries "these collections changed" events from writers to the
// stores whose listeners must re-read.
type Notifier interface {
	Publish(ctx context.Context, collections []string) error
	Listen(fn func(collections []string)) (stop func())
	Close() error
}

// LocalNotifier delivers events synchronously inside the process.
type LocalNotifier struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]func([]string)
}

// NewLocalNotifier constructs an in-process notifier.
func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{listeners: make(map[int]func([]string))}
}

// Publish invokes every listener before returning.
func (n *LocalNotifier) Publish(_ context.Context, collections []string) error {
	if len(collections) == 0 {
		return nil
	}
	n.mu.RLock()
	fns := make([]func([]string), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn(collections)
	}
	return nil
}

// Listen registers fn until the returned stop function is called.
func (n *LocalNotifier) Listen(fn func([]string)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.listeners[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.listeners, id)
			n.mu.Unlock()
		})
	}
}

// Close drops every listener.
func (n *LocalNotifier) Close() error {
	n.mu.Lock()
	n.listeners = make(map[int]func([]string))
	n.mu.Unlock()
	return nil
}

// RedisNotifier fans change events out over Redis pub/sub so that every API
// instance sharing a SQL store refreshes its sessions. A publisher receives
// its own events back through the subscription.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
	local   *LocalNotifier
	pubsub  *redis.PubSub
	done    chan struct{}
	once    sync.Once
}

// NewRedisNotifier subscribes to channel and starts relaying messages.
func NewRedisNotifier(ctx context.Context, client *redis.Client, channel string, logger *zap.Logger) (*RedisNotifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pubsub := client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	n := &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
		local:   NewLocalNotifier(),
		pubsub:  pubsub,
		done:    make(chan struct{}),
	}
	go n.relay()
	return n, nil
}

func (n *RedisNotifier) relay() {
	defer close(n.done)
	for msg := range n.pubsub.Channel() {
		var collections []string
		if err := json.Unmarshal([]byte(msg.Payload), &collections); err != nil {
			n.logger.Warn("discarding malformed change event", zap.String("channel", n.channel), zap.Error(err))
			continue
		}
		_ = n.local.Publish(context.Background(), collections)
	}
}

// Publish broadcasts the changed collections to every subscriber.
func (n *RedisNotifier) Publish(ctx context.Context, collections []string) error {
	if len(collections) == 0 {
		return nil
	}
	payload, err := json.Marshal(collections)
	if err != nil {
		return err
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", n.channel, err)
	}
	return nil
}

// Listen registers fn for events relayed from Redis.
func (n *RedisNotifier) Listen(fn func([]string)) func() {
	return n.local.Listen(fn)
}

// Close stops the relay goroutine. The Redis client itself is left open.
func (n *RedisNotifier) Close() error {
	var err error
	n.once.Do(func() {
		err = n.pubsub.Close()
		<-n.done
		_ = n.local.Close()
	})
	return err
}
