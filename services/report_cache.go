package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"myhabits/model"
	"myhabits/utils"

	"github.com/redis/go-redis/v9"
)

// RedisReportCache mirrors computed weekly series in Redis. It is a
// best-effort collaborator: every failure degrades to a cache miss and is
// logged, never surfaced to the report caller.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisReportCache) Read(ctx context.Context, key string) ([]model.DailyRate, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		utils.TrackCacheOperation("report", false)
		return nil, false
	}
	if err != nil {
		utils.TrackError("cache", "report_read_failed")
		log.Printf("Warning: Failed to read cached report: %v", err)
		return nil, false
	}

	var series []model.DailyRate
	if err := json.Unmarshal(data, &series); err != nil {
		utils.TrackError("cache", "report_unmarshal_failed")
		return nil, false
	}

	utils.TrackCacheOperation("report", true)
	return series, true
}

// Write stores the series and indexes the key under every user it covers,
// so a later Invalidate for any of those users drops it.
func (c *RedisReportCache) Write(ctx context.Context, key string, userIDs []string, series []model.DailyRate) {
	data, err := json.Marshal(series)
	if err != nil {
		utils.TrackError("cache", "report_marshal_failed")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		utils.TrackError("cache", "report_write_failed")
		log.Printf("Warning: Failed to cache report: %v", err)
		return
	}

	for _, userID := range userIDs {
		indexKey := userIndexKey(userID)
		if err := c.client.SAdd(ctx, indexKey, key).Err(); err != nil {
			utils.TrackError("cache", "report_index_failed")
			continue
		}
		// The index may outlive its entries by a little; entries expire on
		// their own TTL regardless.
		c.client.Expire(ctx, indexKey, 2*c.ttl)
	}
}

// Invalidate drops every cached series that covers the user.
func (c *RedisReportCache) Invalidate(ctx context.Context, userID string) {
	indexKey := userIndexKey(userID)

	keys, err := c.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		utils.TrackError("cache", "report_invalidate_failed")
		log.Printf("Warning: Failed to list cached reports for user %s: %v", userID, err)
		return
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			utils.TrackError("cache", "report_invalidate_failed")
			return
		}
	}
	c.client.Del(ctx, indexKey)
}

func userIndexKey(userID string) string {
	return "report_keys:" + userID
}
