package flyweight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Payloads  int    `json:"payloads"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Failures  uint64 `json:"failures"`
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	capacity int
	observer Observer
	logger   *slog.Logger
}

// WithCapacity bounds the cache to n payloads using LRU eviction.
// Zero means unbounded, which is the default.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithObserver registers an Observer for cache events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger sets the logger used for construction breadcrumbs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Cache hands out one shared Payload per Key.
type Cache struct {
	mu       sync.Mutex
	payloads store
	flights  singleflight.Group

	factory  Factory
	capacity int
	observer Observer
	logger   *slog.Logger

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
	failures  atomic.Uint64
}

// New creates a Cache that builds payloads with factory.
func New(factory Factory, opts ...Option) (*Cache, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}

	o := options{observer: nopObserver{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 0 {
		return nil, fmt.Errorf("flyweight: capacity must be >= 0, got %d", o.capacity)
	}

	c := &Cache{
		factory:  factory,
		capacity: o.capacity,
		observer: o.observer,
		logger:   o.logger,
	}

	if o.capacity == 0 {
		c.payloads = newMapStore()
		return c, nil
	}

	s, err := newLRUStore(o.capacity, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("flyweight: creating LRU store: %w", err)
	}
	c.payloads = s
	return c, nil
}

// GetOrCreate returns the payload for key, constructing it on first request.
//
// Equal keys yield the same Payload value for as long as the key stays cached.
// Concurrent first requests for a key share a single construction, which runs
// with the context of the caller that started it.
func (c *Cache) GetOrCreate(ctx context.Context, key Key) (Payload, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	if p, ok := c.lookup(key); ok {
		c.hit(key)
		return p, nil
	}

	// built is only set by the caller whose closure runs; callers that joined
	// an in-flight construction, or found the payload on the re-check, count
	// as hits.
	built := false
	v, err, _ := c.flights.Do(key.flightKey(), func() (any, error) {
		if p, ok := c.lookup(key); ok {
			return p, nil
		}

		p, err := c.construct(ctx, key)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.payloads.add(key, p)
		size := c.payloads.len()
		c.mu.Unlock()

		built = true
		c.logger.Debug("Shared payload cached.", "key", key.String(), "payloads", size)
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	if built {
		c.misses.Add(1)
		c.observer.CacheMiss(key)
	} else {
		c.hit(key)
	}
	return v.(Payload), nil
}

// construct runs the factory and checks what it returned.
func (c *Cache) construct(ctx context.Context, key Key) (Payload, error) {
	c.logger.Debug("Constructing shared payload.", "key", key.String())

	p, err := c.factory(ctx, key)
	switch {
	case err != nil:
	case p == nil:
		err = errors.New("factory returned a nil payload")
	case p.Key() != key:
		err = fmt.Errorf("factory returned payload for %q", p.Key().String())
	}
	if err != nil {
		c.failures.Add(1)
		c.observer.ConstructionFailed(key, err)
		c.logger.Warn("Shared payload construction failed.", "key", key.String(), "error", err)
		return nil, &PayloadConstructionError{Key: key, Err: err}
	}
	return p, nil
}

// Lookup returns the cached payload for key without constructing it. It does
// not count as a use for eviction.
func (c *Cache) Lookup(key Key) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloads.peek(key)
}

func (c *Cache) lookup(key Key) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloads.get(key)
}

func (c *Cache) hit(key Key) {
	c.hits.Add(1)
	c.observer.CacheHit(key)
}

// onEvict runs inside the LRU while Cache.mu is held, so it only touches
// atomics and the observer.
func (c *Cache) onEvict(key Key) {
	c.evictions.Add(1)
	c.observer.PayloadEvicted(key)
}

// DistinctCount returns the number of distinct keys currently cached.
func (c *Cache) DistinctCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payloads.len()
}

// Keys returns the cached keys ordered by category, then variant.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	keys := c.payloads.keys()
	c.mu.Unlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Capacity returns the configured bound, or 0 for an unbounded cache.
func (c *Cache) Capacity() int { return c.capacity }

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Payloads:  c.DistinctCount(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Failures:  c.failures.Load(),
	}
}
