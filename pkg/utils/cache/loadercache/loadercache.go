// Package loadercache provides a cache which loads missing entries on demand.
// Concurrent requests for the same key share one load, the number of
// simultaneous loads over all keys may be limited.
package loadercache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/utils/cache"
)

type (
	Option[K comparable, V any] func(*config[K, V])
	item[T any]                 struct {
		data    T
		expires time.Time // zero: never
	}
	LoaderFunc[K comparable, V any] func(context.Context, K) (*V, error)
	config[K comparable, V any]     struct {
		expiration time.Duration
		maxLoads   int64
		loader     LoaderFunc[K, V]
		l          *log.Logger
	}
	loaderCache[K comparable, V any] struct {
		mutex  sync.Mutex
		items  map[K]item[*V]
		gates  map[K]*sync.Mutex
		loads  *semaphore.Weighted
		config *config[K, V]
	}
)

// WithExpiration sets the lifetime of loaded entries. 0 keeps them forever.
func WithExpiration[K comparable, V any](expiration time.Duration) Option[K, V] {
	return func(c *config[K, V]) {
		c.expiration = expiration
	}
}

func WithLoader[K comparable, V any](lf LoaderFunc[K, V]) Option[K, V] {
	return func(c *config[K, V]) {
		c.loader = lf
	}
}

// WithMaxConcurrentLoads limits the loads running at the same time
func WithMaxConcurrentLoads[K comparable, V any](n int) Option[K, V] {
	return func(c *config[K, V]) {
		c.maxLoads = int64(n)
	}
}

func WithLogger[K comparable, V any](arg *log.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		c.l = arg
	}
}

func New[K comparable, V any](opts ...Option[K, V]) cache.Cache[K, V] {
	c := &config[K, V]{
		maxLoads: 2,
		l:        log.Default().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxLoads < 1 {
		c.maxLoads = 1
	}
	return &loaderCache[K, V]{
		items:  make(map[K]item[*V]),
		gates:  make(map[K]*sync.Mutex),
		loads:  semaphore.NewWeighted(c.maxLoads),
		config: c,
	}
}

func (c *loaderCache[K, V]) Get(ctx context.Context, key K) (*V, error) {
	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	if c.config.loader == nil {
		return nil, cache.ErrCacheMiss
	}
	gate := c.gate(key)
	gate.Lock()
	defer gate.Unlock()
	// another caller may have loaded the entry while we were waiting
	if v, ok := c.lookup(key); ok {
		return v, nil
	}
	return c.load(ctx, key)
}

func (c *loaderCache[K, V]) lookup(key K) (*V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	cacheItem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !cacheItem.expires.IsZero() && cacheItem.expires.Before(time.Now()) {
		delete(c.items, key)
		return nil, false
	}
	return cacheItem.data, true
}

func (c *loaderCache[K, V]) gate(key K) *sync.Mutex {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	g, ok := c.gates[key]
	if !ok {
		g = &sync.Mutex{}
		c.gates[key] = g
	}
	return g
}

func (c *loaderCache[K, V]) load(ctx context.Context, key K) (*V, error) {
	if err := c.loads.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.loads.Release(1)

	c.config.l.Debug("loading entry", log.Any("key", key))
	v, err := c.config.loader(ctx, key)
	if err != nil {
		c.config.l.Error("error loading entry", log.Any("key", key), log.ErrorField(err))
		return nil, err
	}
	entry := item[*V]{data: v}
	if c.config.expiration > 0 {
		entry.expires = time.Now().Add(c.config.expiration)
	}
	c.mutex.Lock()
	c.items[key] = entry
	c.mutex.Unlock()
	return v, nil
}

func (c *loaderCache[K, V]) Invalidate(ctx context.Context, key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
	c.config.l.Debug("Invalidate", log.Any("key", key), log.Int("remain items", len(c.items)))
}

func (c *loaderCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.items)
}
