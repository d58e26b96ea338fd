package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

const (
	rubricCatalogKey = "rubric:catalog"
	rubricCatalogTTL = 12 * time.Hour
)

// RubricCache is a read-through cache for the category/item/rubric catalog.
// The catalog is read on every submission and ranking but changes only
// through admin edits, which invalidate it. A nil *RubricCache is a no-op so
// the repository works without Redis (tests, local dev).
type RubricCache struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

func NewRubricCache(client *redis.Client, logger *zap.SugaredLogger) *RubricCache {
	return &RubricCache{client: client, logger: logger}
}

// GetCatalog unmarshals the cached catalog into dest. The second return is
// false on miss or any cache failure; cache errors never propagate.
func (c *RubricCache) GetCatalog(ctx context.Context, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, rubricCatalogKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debugf("rubric cache get failed: %v", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warnf("rubric cache holds invalid payload, dropping: %v", err)
		c.Invalidate(ctx)
		return false
	}

	return true
}

func (c *RubricCache) SetCatalog(ctx context.Context, catalog any) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(catalog)
	if err != nil {
		c.logger.Warnf("rubric cache marshal failed: %v", err)
		return
	}

	if err := c.client.Set(ctx, rubricCatalogKey, raw, rubricCatalogTTL).Err(); err != nil {
		c.logger.Debugf("rubric cache set failed: %v", err)
	}
}

// Invalidate drops the cached catalog. Called after every admin mutation of
// categories, items or rubric cells.
func (c *RubricCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, rubricCatalogKey).Err(); err != nil {
		c.logger.Debugf("rubric cache invalidate failed: %v", err)
	}
}
