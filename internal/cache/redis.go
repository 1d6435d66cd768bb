package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/etnair/config"
	"github.com/Domenick1991/etnair/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	catalogTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, catalogTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		catalogTTL: catalogTTL,
	}
}

// GetCatalog returns the cached active-listing catalog, or nil on a miss.
func (c *RedisCache) GetCatalog(ctx context.Context) ([]domain.Listing, error) {
	data, err := c.client.Get(ctx, catalogKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var listings []domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *RedisCache) SetCatalog(ctx context.Context, listings []domain.Listing) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey(), payload, c.catalogTTL).Err()
}

func (c *RedisCache) InvalidateCatalog(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey()).Err()
}

// AcquireBookingLock serializes check-then-insert per listing. The TTL bounds
// the hold if the caller dies before releasing.
func (c *RedisCache) AcquireBookingLock(ctx context.Context, listingID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(listingID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, listingID int64) error {
	return c.client.Del(ctx, bookingLockKey(listingID)).Err()
}

func catalogKey() string {
	return "cache:listings:catalog"
}

func bookingLockKey(listingID int64) string {
	return fmt.Sprintf("lock:listing:%d:booking", listingID)
}
