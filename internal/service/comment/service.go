package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/metrics"
	"blog-engagement/internal/repository"
	"blog-engagement/internal/service/consistency"
	"blog-engagement/internal/service/notification"
)

type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error)
	List(ctx context.Context, postID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error)
	Delete(ctx context.Context, requesterID uuid.UUID, commentID uuid.UUID) error
	ReconcileOrphans(ctx context.Context, requesterID uuid.UUID, postID uuid.UUID) (int, error)
	ResyncCounters(ctx context.Context, requesterID uuid.UUID, postID uuid.UUID) (*domain.PostActivity, error)
	GetActivity(ctx context.Context, postID uuid.UUID) (*domain.PostActivity, error)
	SetNotificationService(notifSvc notification.Service)
}

type Options struct {
	PageSize        int
	RankingCacheTTL time.Duration
}

type service struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	tracker     consistency.Tracker
	redis       *redis.Client
	notifSvc    notification.Service
	log         *zap.Logger
	opts        Options
}

func NewService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	tracker consistency.Tracker,
	redis *redis.Client,
	log *zap.Logger,
	opts Options,
) Service {
	if opts.PageSize < 1 {
		opts.PageSize = 5
	}
	return &service{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		tracker:     tracker,
		redis:       redis,
		log:         log.Named("comment"),
		opts:        opts,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, input domain.CreateCommentInput) (*domain.Comment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	postAuthorID, err := s.postRepo.GetAuthor(ctx, input.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post %s: %w", input.PostID, err)
	}
	if input.PostAuthorID != nil && *input.PostAuthorID != postAuthorID {
		return nil, fmt.Errorf("%w: post author does not match post %s", domain.ErrValidation, input.PostID)
	}

	comment := &domain.Comment{
		ID:           uuid.New(),
		PostID:       input.PostID,
		PostAuthorID: postAuthorID,
		AuthorID:     authorID,
		Body:         input.Body,
		Children:     domain.IDList{},
	}

	var parent *domain.Comment
	if input.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *input.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent comment %s: %w", *input.ParentID, err)
		}
		if parent.PostID != input.PostID {
			return nil, fmt.Errorf("%w: parent comment belongs to another post", domain.ErrValidation)
		}
		parentID := parent.ID
		comment.ParentID = &parentID
		comment.IsReply = true
		comment.Depth = parent.Depth + 1

		if input.NotificationID != nil && s.notifSvc != nil {
			if err := s.notifSvc.CheckReplyTarget(ctx, *input.NotificationID, authorID, parentID); err != nil {
				return nil, err
			}
		}
	}

	// The store re-checks the parent under a row lock and links the child
	// in the same transaction.
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if parent != nil && errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("parent comment %s was removed: %w", *input.ParentID, err)
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	delta := domain.CounterDelta{Comments: 1}
	kind := domain.NotifReply
	if parent == nil {
		delta.ParentComments = 1
		kind = domain.NotifComment
	}
	if err := s.postRepo.IncrementCounters(ctx, comment.PostID, delta); err != nil {
		s.tracker.MarkOutOfSync(ctx, "create_comment", comment.PostID, err)
	}
	s.invalidateRanking(ctx, comment.PostID)
	metrics.CommentsCreated.WithLabelValues(string(kind)).Inc()

	s.emit(ctx, comment, parent)

	if input.NotificationID != nil && s.notifSvc != nil {
		if err := s.notifSvc.AttachReply(ctx, *input.NotificationID, comment); err != nil {
			s.log.Warn("Failed to attach reply to notification",
				zap.Stringer("notification_id", *input.NotificationID),
				zap.Stringer("comment_id", comment.ID),
				zap.Error(err))
		}
	}

	return comment, nil
}

// emit writes the comment or reply event. A failure is logged; the comment
// itself is already committed and returning an error would invite a
// duplicate retry.
func (s *service) emit(ctx context.Context, comment, parent *domain.Comment) {
	if s.notifSvc == nil {
		return
	}
	var err error
	if parent != nil {
		err = s.notifSvc.NotifyReply(ctx, comment, parent)
	} else {
		err = s.notifSvc.NotifyComment(ctx, comment)
	}
	if err != nil {
		s.log.Error("Failed to emit notification", zap.Stringer("comment_id", comment.ID), zap.Error(err))
	}
}

func (s *service) List(ctx context.Context, postID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error) {
	if err := params.Validate(s.opts.PageSize); err != nil {
		return nil, err
	}

	ranked, err := s.rankedIDs(ctx, postID)
	if err != nil {
		return nil, err
	}

	lo, hi := params.Window(len(ranked))
	page := ranked[lo:hi]
	if len(page) == 0 {
		return []domain.Comment{}, nil
	}

	comments, err := s.commentRepo.GetByIDs(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return inOrder(page, comments), nil
}

func (s *service) ListReplies(ctx context.Context, parentID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error) {
	if err := params.Validate(s.opts.PageSize); err != nil {
		return nil, err
	}

	if _, err := s.commentRepo.GetByID(ctx, parentID); err != nil {
		return nil, fmt.Errorf("failed to load comment %s: %w", parentID, err)
	}

	replies, err := s.commentRepo.ListChildren(ctx, parentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

func (s *service) GetActivity(ctx context.Context, postID uuid.UUID) (*domain.PostActivity, error) {
	return s.postRepo.GetActivity(ctx, postID)
}

// inOrder arranges comments to follow ids, dropping ids that no longer resolve.
func inOrder(ids []uuid.UUID, comments []domain.Comment) []domain.Comment {
	byID := make(map[uuid.UUID]domain.Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}
	out := make([]domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
