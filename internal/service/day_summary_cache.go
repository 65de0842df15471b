package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-health/clinic-booking-api/internal/models"
)

// RedisDaySummaryCache caches availability reads keyed per (campus, date).
// Appointment and override mutations invalidate exact dates; campus-wide
// setting changes ride out the short TTL.
type RedisDaySummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisDaySummaryCache builds the cache. TTL defaults to one minute.
func NewRedisDaySummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisDaySummaryCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDaySummaryCache{client: client, ttl: ttl, logger: logger}
}

func summaryKey(campusID string, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s", campusID, models.FormatDate(date))
}

// Get returns the cached summary when present. Cache errors degrade to a
// miss; availability must keep answering when redis is down.
func (c *RedisDaySummaryCache) Get(ctx context.Context, campusID string, date time.Time) (*models.DaySummary, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, summaryKey(campusID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Sugar().Warnw("availability cache read failed", "campus_id", campusID, "error", err)
		}
		return nil, false
	}
	var summary models.DaySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// Set stores a summary for the TTL window.
func (c *RedisDaySummaryCache) Set(ctx context.Context, campusID string, summary models.DaySummary) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey(campusID, summary.Date), raw, c.ttl).Err(); err != nil {
		c.logger.Sugar().Warnw("availability cache write failed", "campus_id", campusID, "error", err)
	}
}

// Invalidate drops the cached summary for a (campus, date).
func (c *RedisDaySummaryCache) Invalidate(ctx context.Context, campusID string, date time.Time) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, summaryKey(campusID, date)).Err(); err != nil {
		c.logger.Sugar().Warnw("availability cache invalidation failed", "campus_id", campusID, "error", err)
	}
}
