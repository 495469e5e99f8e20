package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/metrics"
)

func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, commentID uuid.UUID) error {
	target, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.finishDelete(ctx, commentID)
	}
	if err != nil {
		return fmt.Errorf("failed to load comment %s: %w", commentID, err)
	}

	if requesterID != target.AuthorID && requesterID != target.PostAuthorID {
		return fmt.Errorf("%w: only the comment author or the post author may delete this comment", domain.ErrForbidden)
	}

	removed, err := s.cascade(ctx, target.PostID, []uuid.UUID{commentID})
	s.log.Info("Comment deleted",
		zap.Stringer("comment_id", commentID),
		zap.Stringer("post_id", target.PostID),
		zap.Int("removed", removed),
		zap.Error(err))
	return err
}

// finishDelete handles a repeated delete of a comment that is already gone.
// If an earlier cascade stopped partway, its surviving replies still carry
// the id as parent_id and are removed now. They were authorized for
// removal when the first attempt deleted their ancestor.
func (s *service) finishDelete(ctx context.Context, commentID uuid.UUID) error {
	leftovers, err := s.commentRepo.ListByParent(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to list replies of removed comment %s: %w", commentID, err)
	}
	if len(leftovers) == 0 {
		return fmt.Errorf("failed to load comment %s: %w", commentID, domain.ErrNotFound)
	}

	ids := make([]uuid.UUID, len(leftovers))
	for i, c := range leftovers {
		ids[i] = c.ID
	}
	postID := leftovers[0].PostID
	removed, err := s.cascade(ctx, postID, ids)
	s.log.Info("Interrupted delete resumed",
		zap.Stringer("comment_id", commentID),
		zap.Stringer("post_id", postID),
		zap.Int("removed", removed),
		zap.Error(err))
	return err
}

// ReconcileOrphans removes comments left behind by a cascade that stopped
// partway: replies whose parent no longer exists, and their subtrees.
func (s *service) ReconcileOrphans(ctx context.Context, requesterID uuid.UUID, postID uuid.UUID) (int, error) {
	if err := s.requirePostAuthor(ctx, requesterID, postID); err != nil {
		return 0, err
	}

	orphans, err := s.commentRepo.ListOrphans(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to list orphaned comments: %w", err)
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	removed, err := s.cascade(ctx, postID, orphans)
	s.log.Info("Orphaned comments reconciled", zap.Stringer("post_id", postID), zap.Int("removed", removed), zap.Error(err))
	return removed, err
}

// ResyncCounters recounts the live comment rows and like events of a post
// and overwrites its counters with the result.
func (s *service) ResyncCounters(ctx context.Context, requesterID uuid.UUID, postID uuid.UUID) (*domain.PostActivity, error) {
	if err := s.requirePostAuthor(ctx, requesterID, postID); err != nil {
		return nil, err
	}

	total, parents, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	likes, err := s.countLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	counts := domain.CounterDelta{Comments: total, ParentComments: parents, Likes: likes}
	if err := s.postRepo.SetCounters(ctx, postID, counts); err != nil {
		return nil, fmt.Errorf("failed to write post counters: %w", err)
	}
	if err := s.tracker.Clear(ctx, postID); err != nil {
		s.log.Warn("Failed to clear out-of-sync mark", zap.Stringer("post_id", postID), zap.Error(err))
	}

	return s.postRepo.GetActivity(ctx, postID)
}

// countLikes falls back to the stored counter when no notification
// service is wired, since like events are the only source of truth.
func (s *service) countLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	if s.notifSvc == nil {
		a, err := s.postRepo.GetActivity(ctx, postID)
		if err != nil {
			return 0, fmt.Errorf("failed to load post activity: %w", err)
		}
		return a.TotalLikes, nil
	}
	likes, err := s.notifSvc.CountLikes(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return likes, nil
}

func (s *service) requirePostAuthor(ctx context.Context, requesterID, postID uuid.UUID) error {
	authorID, err := s.postRepo.GetAuthor(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to load post %s: %w", postID, err)
	}
	if authorID != requesterID {
		return fmt.Errorf("%w: only the post author may do this", domain.ErrForbidden)
	}
	return nil
}

// cascade deletes roots and all their descendants with an explicit
// stack, so reply depth never grows the goroutine stack. Each node is
// removed in its own store transaction together with its parent link.
//
// A store failure stops the walk with ErrPartialDelete: the nodes removed
// so far stay removed and the rest become orphans. Notification and
// counter failures do not stop it; notification failures are reported as
// ErrConsistency once every node is gone.
func (s *service) cascade(ctx context.Context, postID uuid.UUID, roots []uuid.UUID) (int, error) {
	stack := append([]uuid.UUID(nil), roots...)
	visited := make(map[uuid.UUID]struct{}, len(roots))
	removed := 0
	var failures []error

	defer func() {
		if removed > 0 {
			metrics.CommentsDeleted.Add(float64(removed))
			metrics.CascadeDepth.Observe(float64(removed))
			s.invalidateRanking(ctx, postID)
		}
	}()

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}

		node, err := s.commentRepo.Delete(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("%w: stopped at comment %s after %d removed: %w",
				domain.ErrPartialDelete, id, removed, errors.Join(append(failures, err)...))
		}
		removed++
		stack = append(stack, node.Children...)

		if s.notifSvc != nil {
			if err := s.notifSvc.PurgeForComment(ctx, node.ID); err != nil {
				s.log.Error("Failed to purge notifications", zap.Stringer("comment_id", node.ID), zap.Error(err))
				failures = append(failures, err)
			}
		}

		delta := domain.CounterDelta{Comments: -1}
		if node.IsTopLevel() {
			delta.ParentComments = -1
		}
		if err := s.postRepo.IncrementCounters(ctx, node.PostID, delta); err != nil {
			s.tracker.MarkOutOfSync(ctx, "delete_comment", node.PostID, err)
		}
	}

	if len(failures) > 0 {
		return removed, fmt.Errorf("%w: %w", domain.ErrConsistency, errors.Join(failures...))
	}
	return removed, nil
}
