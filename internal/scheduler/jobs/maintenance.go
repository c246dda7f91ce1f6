package jobs

import (
	"context"

	"github.com/wonny/investo/pkg/logger"
)

// ExpiringCache drops its own expired entries
type ExpiringCache interface {
	PurgeExpired() int
}

// CacheCleanupJob purges expired entries from the in-process result cache
type CacheCleanupJob struct {
	cache  ExpiringCache
	logger *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job
func NewCacheCleanupJob(cache ExpiringCache, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:  cache,
		logger: log,
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule (every 5 minutes)
func (j *CacheCleanupJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run executes the cache cleanup
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled cache cleanup")

	count := j.cache.PurgeExpired()

	if count > 0 {
		j.logger.WithField("removed", count).Info("Cache cleanup completed")
	}

	return nil
}
