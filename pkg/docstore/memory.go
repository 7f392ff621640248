package docstore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Option customises a store.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	notifier Notifier
	observe  func(op string, duration time.Duration, err error)
}

// WithLogger sets the logger used for delivery and publish failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithNotifier overrides the default in-process notifier.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithObserver reports each completed write operation, e.g. to metrics.
func WithObserver(fn func(op string, duration time.Duration, err error)) Option {
	return func(o *options) { o.observe = fn }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.notifier == nil {
		o.notifier = NewLocalNotifier()
	}
	if o.observe == nil {
		o.observe = func(string, time.Duration, error) {}
	}
	return o
}

// MemoryStore keeps the whole tree in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]interface{}

	opts options
	hub  *hub
	stop func()
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{root: make(map[string]interface{}), opts: buildOptions(opts)}
	s.hub = newHub(s.Get, s.opts.logger)
	s.stop = s.opts.notifier.Listen(s.hub.dispatch)
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, path string) (Value, bool, error) {
	segments, err := SplitPath(path)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := lookup(s.root, segments)
	if !ok {
		return nil, false, nil
	}
	return clone(value), true, nil
}

// Subscribe implements Store.
func (s *MemoryStore) Subscribe(ctx context.Context, path string, fn Listener) (Unsubscribe, error) {
	return s.hub.add(ctx, path, fn)
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, path string, value interface{}) error {
	return s.apply(ctx, "set", map[string]interface{}{path: value})
}

// Push implements Store.
func (s *MemoryStore) Push(ctx context.Context, path string, value interface{}) (string, error) {
	key := s.NewKey()
	if err := s.apply(ctx, "push", map[string]interface{}{Join(path, key): value}); err != nil {
		return "", err
	}
	return key, nil
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, updates map[string]interface{}) error {
	return s.apply(ctx, "update", updates)
}

// Remove implements Store.
func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	return s.apply(ctx, "remove", map[string]interface{}{path: nil})
}

// NewKey implements Store.
func (s *MemoryStore) NewKey() string {
	return NewKey()
}

// Close detaches the store from its notifier.
func (s *MemoryStore) Close() error {
	s.stop()
	return nil
}

func (s *MemoryStore) apply(ctx context.Context, op string, updates map[string]interface{}) error {
	start := time.Now()
	writes, err := planWrites(updates)
	if err != nil {
		s.opts.observe(op, time.Since(start), err)
		return err
	}
	if len(writes) == 0 {
		s.opts.observe(op, time.Since(start), nil)
		return nil
	}

	s.mu.Lock()
	for _, w := range writes {
		assign(s.root, w.segments, w.value)
	}
	s.mu.Unlock()
	s.opts.observe(op, time.Since(start), nil)

	if err := s.opts.notifier.Publish(ctx, touchedCollections(writes)); err != nil {
		s.opts.logger.Warn("change notification failed", zap.String("op", op), zap.Error(err))
	}
	return nil
}
