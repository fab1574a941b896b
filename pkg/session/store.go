package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mpapenbr/iracelog-strategy/log"
	"github.com/mpapenbr/iracelog-strategy/pkg/model"
	"github.com/mpapenbr/iracelog-strategy/pkg/utils/cache"
	"github.com/mpapenbr/iracelog-strategy/pkg/utils/cache/loadercache"
)

type (
	StoreOption func(*storeConfig)

	storeConfig struct {
		maxLoads   int
		expiration time.Duration
		l          *log.Logger
	}

	// Store caches sessions of a Source. Concurrent requests for the same
	// session share a single load.
	Store struct {
		c cache.Cache[Key, Session]
	}

	// MemorySource serves sessions from memory
	MemorySource struct {
		mutex    sync.Mutex
		sessions map[Key][]model.LapRecord
		loads    map[Key]int
	}
)

func WithMaxConcurrentLoads(n int) StoreOption {
	return func(c *storeConfig) {
		c.maxLoads = n
	}
}

func WithExpiration(d time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.expiration = d
	}
}

func WithLogger(l *log.Logger) StoreOption {
	return func(c *storeConfig) {
		c.l = l
	}
}

func NewStore(src Source, opts ...StoreOption) *Store {
	cfg := &storeConfig{maxLoads: 2, l: log.Default().Named("session")}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Store{
		c: loadercache.New(
			loadercache.WithLoader[Key, Session](src.Load),
			loadercache.WithMaxConcurrentLoads[Key, Session](cfg.maxLoads),
			loadercache.WithExpiration[Key, Session](cfg.expiration),
			loadercache.WithLogger[Key, Session](cfg.l.Named("cache")),
		),
	}
}

func (s *Store) Get(ctx context.Context, key Key) (*Session, error) {
	return s.c.Get(ctx, key)
}

func (s *Store) Invalidate(ctx context.Context, key Key) {
	s.c.Invalidate(ctx, key)
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		sessions: map[Key][]model.LapRecord{},
		loads:    map[Key]int{},
	}
}

func (m *MemorySource) Add(key Key, laps []model.LapRecord) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[key] = laps
}

func (m *MemorySource) Load(ctx context.Context, key Key) (*Session, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.loads[key]++
	laps, ok := m.sessions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, key)
	}
	return &Session{Key: key, Laps: laps}, nil
}

// Loads reports how often key was requested from the source
func (m *MemorySource) Loads(key Key) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.loads[key]
}
