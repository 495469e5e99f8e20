package consistency

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/metrics"
)

const outOfSyncKey = "posts:out_of_sync"

// Tracker records posts whose activity counters no longer match the
// comment tree. Entries are cleared by a counter resync.
type Tracker interface {
	MarkOutOfSync(ctx context.Context, operation string, postID uuid.UUID, cause error)
	OutOfSync(ctx context.Context) ([]uuid.UUID, error)
	Clear(ctx context.Context, postID uuid.UUID) error
}

type tracker struct {
	redis *redis.Client
	log   *zap.Logger

	mu    sync.Mutex
	local map[uuid.UUID]struct{}
}

// NewTracker keeps the set in Redis when a client is given, in process
// memory otherwise.
func NewTracker(redis *redis.Client, log *zap.Logger) Tracker {
	return &tracker{
		redis: redis,
		log:   log.Named("consistency"),
		local: make(map[uuid.UUID]struct{}),
	}
}

func (t *tracker) MarkOutOfSync(ctx context.Context, operation string, postID uuid.UUID, cause error) {
	metrics.ConsistencyErrors.WithLabelValues(operation).Inc()
	t.log.Error("Post counters out of sync",
		zap.String("operation", operation),
		zap.Stringer("post_id", postID),
		zap.Error(fmt.Errorf("%w: %v", domain.ErrConsistency, cause)),
	)

	if t.redis != nil {
		err := t.redis.SAdd(ctx, outOfSyncKey, postID.String()).Err()
		if err == nil {
			return
		}
		t.log.Warn("Failed to record out-of-sync post in redis", zap.Stringer("post_id", postID), zap.Error(err))
	}

	t.mu.Lock()
	t.local[postID] = struct{}{}
	t.mu.Unlock()
}

func (t *tracker) OutOfSync(ctx context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})

	if t.redis != nil {
		members, err := t.redis.SMembers(ctx, outOfSyncKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read out-of-sync posts: %w", err)
		}
		for _, m := range members {
			id, err := uuid.Parse(m)
			if err != nil {
				continue
			}
			seen[id] = struct{}{}
		}
	}

	t.mu.Lock()
	for id := range t.local {
		seen[id] = struct{}{}
	}
	t.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *tracker) Clear(ctx context.Context, postID uuid.UUID) error {
	t.mu.Lock()
	delete(t.local, postID)
	t.mu.Unlock()

	if t.redis != nil {
		if err := t.redis.SRem(ctx, outOfSyncKey, postID.String()).Err(); err != nil {
			return fmt.Errorf("failed to clear out-of-sync post: %w", err)
		}
	}
	return nil
}
