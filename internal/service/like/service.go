package like

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/metrics"
	"blog-engagement/internal/repository"
	"blog-engagement/internal/service/consistency"
	"blog-engagement/internal/service/notification"
)

type Service interface {
	// Toggle likes the post when currentlyLiked is false and unlikes it
	// otherwise, returning the resulting state.
	Toggle(ctx context.Context, postID, userID uuid.UUID, currentlyLiked bool) (bool, error)
	IsLikedByUser(ctx context.Context, postID, userID uuid.UUID) (bool, error)
}

type service struct {
	postRepo repository.PostRepository
	notifSvc notification.Service
	tracker  consistency.Tracker
	log      *zap.Logger
}

func NewService(postRepo repository.PostRepository, notifSvc notification.Service, tracker consistency.Tracker, log *zap.Logger) Service {
	return &service{
		postRepo: postRepo,
		notifSvc: notifSvc,
		tracker:  tracker,
		log:      log.Named("like"),
	}
}

// Toggle takes the caller's belief about the current state as the intent,
// but the like event in the feed store is authoritative: total_likes only
// moves when an event was actually written or removed. A stale client
// therefore gets the true state back instead of drifting the counter.
func (s *service) Toggle(ctx context.Context, postID, userID uuid.UUID, currentlyLiked bool) (bool, error) {
	postAuthorID, err := s.postRepo.GetAuthor(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("failed to load post %s: %w", postID, err)
	}

	if !currentlyLiked {
		created, err := s.notifSvc.NotifyLike(ctx, postID, userID, postAuthorID)
		if err != nil {
			return false, err
		}
		if !created {
			s.log.Debug("Like already recorded", zap.Stringer("post_id", postID), zap.Stringer("user_id", userID))
			return true, nil
		}
		s.bump(ctx, postID, 1)
		metrics.LikesToggled.WithLabelValues("like").Inc()
		return true, nil
	}

	removed, err := s.notifSvc.RetractLike(ctx, postID, userID)
	if err != nil {
		return true, err
	}
	if removed {
		s.bump(ctx, postID, -1)
		metrics.LikesToggled.WithLabelValues("unlike").Inc()
	}
	return false, nil
}

func (s *service) bump(ctx context.Context, postID uuid.UUID, by int64) {
	if err := s.postRepo.IncrementCounters(ctx, postID, domain.CounterDelta{Likes: by}); err != nil {
		s.tracker.MarkOutOfSync(ctx, "toggle_like", postID, err)
	}
}

func (s *service) IsLikedByUser(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return s.notifSvc.HasLike(ctx, postID, userID)
}
