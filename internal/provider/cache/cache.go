package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/effective-security/xlog"
	"github.com/marstr/collection/v2"

	"twstock/internal/provider"
)

var logger = xlog.NewPackageLogger("twstock/internal/provider", "cache")

// defaultMaxItems bounds the cache when MaxItems is not set.
const defaultMaxItems = 1024

// entry stores a cached quote with expiry.
type entry struct {
	expiresAt time.Time
	quote     provider.Quote
}

// Provider caches successful quotes per identifier for a TTL.
// Failed lookups are never cached; the next call goes upstream again.
type Provider struct {
	P        provider.Provider
	TTL      time.Duration
	MaxItems int

	mu    sync.Mutex
	items *collection.LRUCache[string, entry] // key: trimmed identifier
}

func (c *Provider) Name() string { return c.P.Name() }

// Fetch returns the cached quote for stockID when still valid.
func (c *Provider) Fetch(ctx context.Context, stockID string) (provider.Quote, error) {
	if c.TTL <= 0 {
		return c.P.Fetch(ctx, stockID)
	}

	key := strings.TrimSpace(stockID)
	now := time.Now()

	c.mu.Lock()
	if c.items == nil {
		capacity := c.MaxItems
		if capacity <= 0 {
			capacity = defaultMaxItems
		}
		c.items = collection.NewLRUCache[string, entry](uint(capacity))
	}
	e, ok := c.items.Get(key)
	c.mu.Unlock()

	if ok && now.Before(e.expiresAt) {
		logger.ContextKV(ctx, xlog.DEBUG, "stock_id", key, "cache", "hit")
		return e.quote, nil
	}

	q, err := c.P.Fetch(ctx, stockID)
	if err != nil {
		return provider.Quote{}, err
	}

	c.mu.Lock()
	c.items.Put(key, entry{expiresAt: now.Add(c.TTL), quote: q})
	c.mu.Unlock()

	return q, nil
}
