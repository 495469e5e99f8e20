package comment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
)

// The cached ranking is keyed by a per-post version that every write
// bumps. A reader that loaded the store before a write finished caches
// under the old version, which no later reader asks for.
func rankingKey(postID uuid.UUID, version int64) string {
	return fmt.Sprintf("comments:%s:ranked:%d", postID, version)
}

func rankingVersionKey(postID uuid.UUID) string {
	return fmt.Sprintf("comments:%s:ranking_version", postID)
}

const minRankingVersionTTL = 24 * time.Hour

// rankTopLevel orders the most discussed comments first and breaks ties
// by recency. The id comparison only makes equal timestamps deterministic.
func rankTopLevel(comments []domain.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if a.ReplyCount != b.ReplyCount {
			return a.ReplyCount > b.ReplyCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// rankedIDs returns every top-level comment id of the post in display
// order. Pages are cut from this list, so the ordering holds across pages.
func (s *service) rankedIDs(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	key, cacheable := s.currentRankingKey(ctx, postID)

	if cacheable {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var ids []uuid.UUID
			if json.Unmarshal([]byte(cached), &ids) == nil {
				return ids, nil
			}
		}
	}

	comments, err := s.commentRepo.ListTopLevel(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	rankTopLevel(comments)

	ids := make([]uuid.UUID, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	if cacheable {
		if payload, err := json.Marshal(ids); err == nil {
			if err := s.redis.Set(ctx, key, payload, s.opts.RankingCacheTTL).Err(); err != nil {
				s.log.Debug("Failed to cache comment ranking", zap.Stringer("post_id", postID), zap.Error(err))
			}
		}
	}

	return ids, nil
}

// currentRankingKey must run before the store read it guards.
func (s *service) currentRankingKey(ctx context.Context, postID uuid.UUID) (string, bool) {
	if s.redis == nil || s.opts.RankingCacheTTL <= 0 {
		return "", false
	}
	version, err := s.redis.Get(ctx, rankingVersionKey(postID)).Int64()
	if errors.Is(err, redis.Nil) {
		version = 0
	} else if err != nil {
		s.log.Debug("Failed to read ranking version", zap.Stringer("post_id", postID), zap.Error(err))
		return "", false
	}
	return rankingKey(postID, version), true
}

func (s *service) invalidateRanking(ctx context.Context, postID uuid.UUID) {
	if s.redis == nil {
		return
	}
	versionKey := rankingVersionKey(postID)
	// The version outlives every ranking cached under it, so an expired
	// version can never resurrect a stale entry.
	ttl := 10 * s.opts.RankingCacheTTL
	if ttl < minRankingVersionTTL {
		ttl = minRankingVersionTTL
	}
	pipe := s.redis.TxPipeline()
	pipe.Incr(ctx, versionKey)
	pipe.Expire(ctx, versionKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn("Failed to invalidate comment ranking", zap.Stringer("post_id", postID), zap.Error(err))
	}
}
