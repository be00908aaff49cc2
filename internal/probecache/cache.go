package probecache

import (
	"context"
	"log/slog"
	"sync"

	"poolconv/internal/logging"
)

// ProbeFunc resolves the audio codec for a path on cache miss.
type ProbeFunc func(ctx context.Context, path string) (string, error)

// Cache is a thread-safe bounded map from file path to probed audio codec.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]string
	order    []string
	logger   *slog.Logger
}

// New creates a cache holding at most capacity entries. A non-positive
// capacity falls back to 500.
func New(capacity int, logger *slog.Logger) *Cache {
	if capacity <= 0 {
		capacity = 500
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]string, capacity),
		logger:   logging.NewComponentLogger(logger, "probecache"),
	}
}

// Lookup returns the cached codec for path, if present.
func (c *Cache) Lookup(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	codec, ok := c.entries[path]
	return codec, ok
}

// Store records the codec for path, evicting the oldest entry when full.
// Storing an already-present path updates the value without changing its
// eviction position.
func (c *Cache) Store(path, codec string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[path]; exists {
		c.entries[path] = codec
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.logger.Debug("evicted oldest probe entry", logging.String(logging.FieldSource, oldest))
	}

	c.entries[path] = codec
	c.order = append(c.order, path)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Resolve returns the codec for path, consulting the cache first and probing
// on a miss. Only successful probes are cached.
func (c *Cache) Resolve(ctx context.Context, path string, probe ProbeFunc) (string, error) {
	if codec, ok := c.Lookup(path); ok {
		return codec, nil
	}

	codec, err := probe(ctx, path)
	if err != nil {
		return "", err
	}

	c.Store(path, codec)
	return codec, nil
}
