package catcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/db"
	"github.com/kailas-cloud/archsearch/internal/domain"
	"github.com/kailas-cloud/archsearch/internal/domain/category"
)

var cacheKeyPrefix = domain.KeyPrefix + "cat_cache:"

// store is the consumer interface for the category cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedCategorizer caches language model categorizations in a key-value store.
type CachedCategorizer struct {
	inner      category.Categorizer
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner category.Categorizer,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCategorizer {
	return &CachedCategorizer{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Categorize returns a cached category set or calls the inner categorizer.
// Cache hit: Tier = cache. Store failures degrade to a miss and are only logged.
func (c *CachedCategorizer) Categorize(ctx context.Context, query string) (category.Resolution, error) {
	key := cacheKey(query)

	if set, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return category.Resolution{Categories: set, Tier: category.TierCache}, nil
	}

	c.incCache("miss")

	res, err := c.inner.Categorize(ctx, query)
	if err != nil {
		return category.Resolution{}, fmt.Errorf("categorize query: %w", err)
	}

	c.putToCache(ctx, key, res.Categories)
	return res, nil
}

func (c *CachedCategorizer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey normalizes case and surrounding whitespace so trivially different
// spellings of a query share an entry.
func cacheKey(query string) string {
	norm := strings.ToLower(strings.TrimSpace(query))
	h := sha256.Sum256([]byte(norm))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedCategorizer) getFromCache(ctx context.Context, key string) (category.Set, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached categories", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		c.logger.Warn("Failed to parse cached categories", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	set := category.NewSet()
	for _, l := range labels {
		if category.IsValid(l) {
			set.Add(l)
		}
	}
	if set.IsEmpty() {
		return nil, false
	}
	return set, true
}

func (c *CachedCategorizer) putToCache(ctx context.Context, key string, set category.Set) {
	if set.IsEmpty() {
		return
	}
	data, err := json.Marshal(set.Sorted())
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache categories", zap.String("key", key), zap.Error(err))
	}
}
