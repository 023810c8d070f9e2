package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stitchworks/backend/internal/application/planning"
	"go.uber.org/zap"
)

const reportKey = "planning:replenishment:report"

// RedisReportCache stores the latest planner snapshot in Redis with a TTL.
// Cache failures are logged and treated as misses; the planner recomputes.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisReportCache creates a new RedisReportCache
func NewRedisReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisReportCache {
	return &RedisReportCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("report-cache"),
	}
}

// Get returns the cached report, or a miss
func (c *RedisReportCache) Get(ctx context.Context) (*planning.Report, bool) {
	raw, err := c.client.Get(ctx, reportKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("report cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var report planning.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		c.logger.Warn("report cache entry corrupt, discarding", zap.Error(err))
		c.client.Del(ctx, reportKey)
		return nil, false
	}
	return &report, true
}

// Set stores the report for the configured TTL
func (c *RedisReportCache) Set(ctx context.Context, report *planning.Report) {
	raw, err := json.Marshal(report)
	if err != nil {
		c.logger.Warn("report cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, reportKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("report cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached report. Callers invalidate after mutations
// that change stock levels materially, such as a confirmed cycle count.
func (c *RedisReportCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, reportKey).Err(); err != nil {
		c.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

var _ planning.ReportCache = (*RedisReportCache)(nil)
