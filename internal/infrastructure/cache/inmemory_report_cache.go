package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stitchworks/backend/internal/application/planning"
)

// InMemoryReportCache holds the latest planner snapshot in process memory.
// It serves deployments without Redis and all tests.
type InMemoryReportCache struct {
	mu        sync.RWMutex
	report    *planning.Report
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryReportCache creates a new InMemoryReportCache
func NewInMemoryReportCache(ttl time.Duration) *InMemoryReportCache {
	return &InMemoryReportCache{ttl: ttl, now: time.Now}
}

// Get returns the cached report if it has not expired
func (c *InMemoryReportCache) Get(_ context.Context) (*planning.Report, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.report == nil || c.now().After(c.expiresAt) {
		return nil, false
	}
	return c.report, true
}

// Set stores the report for the configured TTL
func (c *InMemoryReportCache) Set(_ context.Context, report *planning.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	c.expiresAt = c.now().Add(c.ttl)
}

// Invalidate drops the cached report
func (c *InMemoryReportCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = nil
}

var _ planning.ReportCache = (*InMemoryReportCache)(nil)
