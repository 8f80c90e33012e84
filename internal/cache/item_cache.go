package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/avbaser/coldstore/internal/metrics"
	"github.com/avbaser/coldstore/internal/repository"
)

type ItemRepository interface {
	GetAll(ctx context.Context) ([]*repository.Item, error)
}

// ItemCache keeps the full inventory in memory. The table is small (one row
// per stored lot) so a full preload at start is cheap.
type ItemCache struct {
	mu     sync.RWMutex
	cache  map[int64]*repository.Item
	repo   ItemRepository
	logger *zap.Logger
}

func NewItemCache(repo ItemRepository, logger *zap.Logger) *ItemCache {
	return &ItemCache{
		cache:  make(map[int64]*repository.Item),
		repo:   repo,
		logger: logger,
	}
}

func (c *ItemCache) LoadInitialData(ctx context.Context) error {
	items, err := c.repo.GetAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range items {
		itemCopy := *item
		c.cache[item.ID] = &itemCopy
	}
	metrics.ItemCacheItems.Set(float64(len(c.cache)))
	c.logger.Info("item cache preloaded", zap.Int("items", len(c.cache)))
	return nil
}

func (c *ItemCache) Get(id int64) (*repository.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, found := c.cache[id]
	if !found {
		return nil, false
	}
	itemCopy := *item
	return &itemCopy, true
}

func (c *ItemCache) Set(item *repository.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	itemCopy := *item
	c.cache[item.ID] = &itemCopy
	metrics.ItemCacheItems.Set(float64(len(c.cache)))
}

func (c *ItemCache) Delete(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[id]; found {
		delete(c.cache, id)
		metrics.ItemCacheItems.Set(float64(len(c.cache)))
	}
}
