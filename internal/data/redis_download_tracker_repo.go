package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hmodding/website-jobs/internal/core"
)

// RedisDownloadTrackerRepo provides Redis-backed download deduplication.
// Keys carry the tracking window as their TTL, so Redis expires stale
// trackers natively and the GC sweep has nothing to do.
type RedisDownloadTrackerRepo struct {
	client redis.UniversalClient
}

// NewRedisDownloadTrackerRepo creates a new RedisDownloadTrackerRepo.
func NewRedisDownloadTrackerRepo(client redis.UniversalClient) *RedisDownloadTrackerRepo {
	return &RedisDownloadTrackerRepo{client: client}
}

func downloadTrackerKey(ipHash, path string) string {
	return "dl:" + ipHash + ":" + path
}

// Touch registers a download hit via SET NX with the window as TTL. The set
// succeeds only when no live key exists, which is exactly the first-view
// condition.
func (r *RedisDownloadTrackerRepo) Touch(ctx context.Context, params core.TouchDownloadParams) (bool, error) {
	if params.IPHash == "" || params.Path == "" {
		return false, errors.New("ip_hash and path are required")
	}

	ttl := params.ExpiresAt.Sub(params.Now)
	if ttl <= 0 {
		return false, fmt.Errorf("tracking window must end after now, got %s", ttl)
	}

	ok, err := r.client.SetNX(ctx, downloadTrackerKey(params.IPHash, params.Path), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("touch download tracker: %w", err)
	}
	return ok, nil
}

// DeleteExpired is a no-op; Redis evicts expired keys itself.
func (r *RedisDownloadTrackerRepo) DeleteExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}
