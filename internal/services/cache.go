package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "lifestory:cache:"
	// DefaultCacheTTL bounds how long a derived value may outlive a missed invalidation.
	DefaultCacheTTL = 1 * time.Hour

	journalVersionKey = "lifestory:journal:version"
)

// CacheService stores JSON values in Redis. Keys embed the journal version, which
// every save bumps, so derived data (stats, stories) is invalidated without scanning.
// A nil client turns every call into a miss.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client, ttl: DefaultCacheTTL}
}

func (c *CacheService) enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current journal version, 0 when unset.
func (c *CacheService) Version(ctx context.Context) int64 {
	if !c.enabled() {
		return 0
	}
	v, err := c.client.Get(ctx, journalVersionKey).Int64()
	if err != nil && err != redis.Nil {
		log.Printf("[Cache] version lookup failed: %v", err)
	}
	return v
}

// BumpVersion invalidates everything cached under the previous version.
func (c *CacheService) BumpVersion(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, journalVersionKey).Err(); err != nil {
		log.Printf("[Cache] version bump failed: %v", err)
	}
}

// Get retrieves a value from cache. Misses and Redis errors both report false.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[Cache] get %s failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		log.Printf("[Cache] corrupt value at %s: %v", key, err)
		return false
	}
	return true
}

// Set stores a value in cache with the default TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[Cache] marshal %s failed: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, CacheKeyPrefix+key, data, c.ttl).Err(); err != nil {
		log.Printf("[Cache] set %s failed: %v", key, err)
	}
}

// CacheKey generates a versioned cache key for a resource.
func CacheKey(version int64, resource string, identifier string) string {
	return fmt.Sprintf("v%d:%s:%s", version, resource, identifier)
}

// CachedEntryStore decorates an EntryStore with cached dashboard statistics.
type CachedEntryStore struct {
	EntryStore
	cache *CacheService
}

func NewCachedEntryStore(store EntryStore, cache *CacheService) *CachedEntryStore {
	return &CachedEntryStore{EntryStore: store, cache: cache}
}

func (s *CachedEntryStore) Save(ctx context.Context, date string, content *string, imagePaths []string) (*models.Entry, error) {
	entry, err := s.EntryStore.Save(ctx, date, content, imagePaths)
	if err != nil {
		return nil, err
	}
	s.cache.BumpVersion(ctx)
	return entry, nil
}

func (s *CachedEntryStore) Stats(ctx context.Context) (*models.DashboardStats, error) {
	key := CacheKey(s.cache.Version(ctx), "stats", "all")
	var cached models.DashboardStats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}
	stats, err := s.EntryStore.Stats(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, stats)
	return stats, nil
}
