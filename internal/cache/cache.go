package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Divyansh-9/Urja/internal/domain"
)

// ErrCacheMiss is returned when no cached context exists for the user.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL bounds how stale a cached user context may get even without an
// explicit invalidation.
const DefaultTTL = 30 * time.Minute

// UCOCache caches assembled user context objects between writes. Writers must
// invalidate after every profile mutation; readers fall back to the
// repository on miss.
type UCOCache interface {
	Get(ctx context.Context, userID string) (*domain.UserContextObject, error)
	Set(ctx context.Context, uco *domain.UserContextObject) error
	Invalidate(ctx context.Context, userID string) error
}

// --- In-memory implementation ---

type memoryEntry struct {
	uco       *domain.UserContextObject
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache returns a process-local UCOCache. Suitable for single-node
// deployments and tests.
func NewMemoryCache(ttl time.Duration) UCOCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *memoryCache) Get(_ context.Context, userID string) (*domain.UserContextObject, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrCacheMiss
	}
	return entry.uco, nil
}

func (c *memoryCache) Set(_ context.Context, uco *domain.UserContextObject) error {
	if uco == nil {
		return errors.New("cannot cache nil context")
	}
	c.mu.Lock()
	c.entries[uco.Meta.UserID] = memoryEntry{uco: uco, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
	return nil
}
