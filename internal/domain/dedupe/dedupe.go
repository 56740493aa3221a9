// Package dedupe coalesces pending background jobs so that at most one job per
// key waits in the queue at any time.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

const defaultMaxKeys = 1024

// Coalescer tracks which job keys are pending.
type Coalescer interface {
	// Claim marks key as pending. It returns true if key was already pending,
	// in which case the caller must not enqueue another job for it.
	Claim(ctx context.Context, key string) bool

	// Release clears key so that the next Claim succeeds. Workers call it when
	// they start a job, and producers call it when an enqueue fails.
	Release(ctx context.Context, key string)

	// Pending returns the number of keys currently claimed.
	Pending() int
}

// Option configures the in-memory coalescer.
type Option func(*memCoalescer)

// WithMaxKeys bounds the number of tracked keys. When the bound is reached the
// oldest claim is forgotten. A value <= 0 disables the bound.
func WithMaxKeys(n int) Option {
	return func(c *memCoalescer) {
		c.maxKeys = n
	}
}

type memCoalescer struct {
	mu      sync.Mutex
	keys    map[string]*list.Element
	order   *list.List // front is the oldest claim
	maxKeys int
}

// New returns an in-memory Coalescer.
func New(opts ...Option) Coalescer {
	c := &memCoalescer{
		keys:    make(map[string]*list.Element),
		order:   list.New(),
		maxKeys: defaultMaxKeys,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *memCoalescer) Claim(_ context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.keys[key]; ok {
		return true
	}
	if c.maxKeys > 0 && c.order.Len() >= c.maxKeys {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.keys, oldest.Value.(string))
	}
	c.keys[key] = c.order.PushBack(key)
	return false
}

func (c *memCoalescer) Release(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.keys[key]; ok {
		c.order.Remove(e)
		delete(c.keys, key)
	}
}

func (c *memCoalescer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
