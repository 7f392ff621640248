package docstore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

type readFunc func(ctx context.Context, path string) (Value, bool, error)

type subscription struct {
	path       string
	collection string
	fn         Listener
	// mu serialises deliveries so a listener never observes an older read
	// after a newer one.
	mu     sync.Mutex
	closed atomic.Bool
}

// hub tracks listeners and re-reads their paths when a collection changes.
type hub struct {
	mu     sync.RWMutex
	next   uint64
	subs   map[uint64]*subscription
	read   readFunc
	logger *zap.Logger
}

func newHub(read readFunc, logger *zap.Logger) *hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &hub{subs: make(map[uint64]*subscription), read: read, logger: logger}
}

func (h *hub) add(ctx context.Context, path string, fn Listener) (Unsubscribe, error) {
	if fn == nil {
		return nil, fmt.Errorf("docstore: nil listener")
	}
	segments, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: cannot subscribe to root", ErrInvalidPath)
	}

	sub := &subscription{path: Join(segments...), collection: segments[0], fn: fn}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	h.mu.Unlock()

	remove := func() {
		if sub.closed.Swap(true) {
			return
		}
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}

	if err := h.deliver(ctx, sub); err != nil {
		remove()
		return nil, err
	}
	return remove, nil
}

func (h *hub) deliver(ctx context.Context, sub *subscription) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed.Load() {
		return nil
	}
	value, exists, err := h.read(ctx, sub.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", sub.path, err)
	}
	sub.fn(value, exists)
	return nil
}

// dispatch notifies every listener whose collection is among collections.
func (h *hub) dispatch(collections []string) {
	changed := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		changed[c] = struct{}{}
	}

	h.mu.RLock()
	targets := make([]*subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		if _, ok := changed[sub.collection]; ok {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range targets {
		if err := h.deliver(context.Background(), sub); err != nil {
			h.logger.Warn("subscription delivery failed", zap.String("path", sub.path), zap.Error(err))
		}
	}
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
