package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/metrics"
	"blog-engagement/internal/repository"
)

type Service interface {
	HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, query domain.FeedQuery) (domain.PaginatedResponse[domain.NotificationView], error)
	Count(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) (int64, error)

	NotifyComment(ctx context.Context, comment *domain.Comment) error
	NotifyReply(ctx context.Context, reply *domain.Comment, parent *domain.Comment) error
	CheckReplyTarget(ctx context.Context, notificationID, replierID, parentID uuid.UUID) error
	AttachReply(ctx context.Context, notificationID uuid.UUID, reply *domain.Comment) error
	PurgeForComment(ctx context.Context, commentID uuid.UUID) error

	NotifyLike(ctx context.Context, postID, actorID, postAuthorID uuid.UUID) (bool, error)
	RetractLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error)
	HasLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)
}

type service struct {
	notifRepo repository.NotificationRepository
	pageSize  int
	log       *zap.Logger
}

func NewService(notifRepo repository.NotificationRepository, pageSize int, log *zap.Logger) Service {
	if pageSize < 1 {
		pageSize = 10
	}
	return &service{
		notifRepo: notifRepo,
		pageSize:  pageSize,
		log:       log.Named("notification"),
	}
}

func (s *service) HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.notifRepo.HasUnseen(ctx, userID)
}

// List returns one page of the feed and then marks exactly that page seen.
// Entries come back with the seen state they had before this call.
func (s *service) List(ctx context.Context, userID uuid.UUID, query domain.FeedQuery) (domain.PaginatedResponse[domain.NotificationView], error) {
	if err := query.Validate(); err != nil {
		return domain.PaginatedResponse[domain.NotificationView]{}, err
	}

	skip := query.Skip(s.pageSize)
	views, err := s.notifRepo.ListFeed(ctx, userID, query.Filter, skip, s.pageSize)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationView]{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	total, err := s.notifRepo.CountFeed(ctx, userID, query.Filter)
	if err != nil {
		return domain.PaginatedResponse[domain.NotificationView]{}, fmt.Errorf("failed to count notifications: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		if !v.Seen {
			ids = append(ids, v.ID)
		}
	}
	if err := s.notifRepo.MarkSeen(ctx, userID, ids); err != nil {
		s.log.Warn("Failed to mark notifications seen", zap.Stringer("user_id", userID), zap.Int("count", len(ids)), zap.Error(err))
	}

	return domain.NewPaginatedResponse(views, query.Page, s.pageSize, total), nil
}

func (s *service) Count(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) (int64, error) {
	f, err := domain.ParseNotificationFilter(string(filter))
	if err != nil {
		return 0, err
	}
	return s.notifRepo.CountFeed(ctx, userID, f)
}

func (s *service) NotifyComment(ctx context.Context, comment *domain.Comment) error {
	commentID := comment.ID
	notif := &domain.Notification{
		ID:        uuid.New(),
		Kind:      domain.NotifComment,
		PostID:    comment.PostID,
		ActorID:   comment.AuthorID,
		TargetID:  comment.PostAuthorID,
		CommentID: &commentID,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return fmt.Errorf("failed to create comment notification: %w", err)
	}
	metrics.NotificationsEmitted.WithLabelValues(string(domain.NotifComment)).Inc()
	return nil
}

// NotifyReply targets the author of the parent comment, not the post author.
func (s *service) NotifyReply(ctx context.Context, reply *domain.Comment, parent *domain.Comment) error {
	replyID := reply.ID
	parentID := parent.ID
	notif := &domain.Notification{
		ID:                 uuid.New(),
		Kind:               domain.NotifReply,
		PostID:             reply.PostID,
		ActorID:            reply.AuthorID,
		TargetID:           parent.AuthorID,
		CommentID:          &replyID,
		RepliedOnCommentID: &parentID,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return fmt.Errorf("failed to create reply notification: %w", err)
	}
	metrics.NotificationsEmitted.WithLabelValues(string(domain.NotifReply)).Inc()
	return nil
}

// CheckReplyTarget allows a reply to be linked to a notification only by
// the user the notification was sent to, and only when the reply answers
// the comment the notification announced.
func (s *service) CheckReplyTarget(ctx context.Context, notificationID, replierID, parentID uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("failed to load notification %s: %w", notificationID, err)
	}
	if notif.TargetID != replierID {
		return fmt.Errorf("%w: notification %s belongs to another user", domain.ErrForbidden, notificationID)
	}
	if notif.CommentID == nil || *notif.CommentID != parentID {
		return fmt.Errorf("%w: notification %s does not announce the comment being replied to", domain.ErrValidation, notificationID)
	}
	return nil
}

// AttachReply records reply as the answer to the notification. The store
// repeats the ownership checks in the update itself.
func (s *service) AttachReply(ctx context.Context, notificationID uuid.UUID, reply *domain.Comment) error {
	if reply.ParentID == nil {
		return fmt.Errorf("%w: only replies can be linked to a notification", domain.ErrValidation)
	}
	if err := s.notifRepo.SetReply(ctx, notificationID, reply.AuthorID, *reply.ParentID, reply.ID); err != nil {
		return fmt.Errorf("failed to link reply to notification %s: %w", notificationID, err)
	}
	return nil
}

// PurgeForComment drops the event that announced the comment and unlinks
// it from any event that used it as a reply backlink.
func (s *service) PurgeForComment(ctx context.Context, commentID uuid.UUID) error {
	if _, err := s.notifRepo.DeleteByComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete notifications for comment %s: %w", commentID, err)
	}
	if _, err := s.notifRepo.ClearReply(ctx, commentID); err != nil {
		return fmt.Errorf("failed to clear reply backlink %s: %w", commentID, err)
	}
	return nil
}

func (s *service) NotifyLike(ctx context.Context, postID, actorID, postAuthorID uuid.UUID) (bool, error) {
	notif := &domain.Notification{
		ID:       uuid.New(),
		Kind:     domain.NotifLike,
		PostID:   postID,
		ActorID:  actorID,
		TargetID: postAuthorID,
	}
	created, err := s.notifRepo.CreateLike(ctx, notif)
	if err != nil {
		return false, fmt.Errorf("failed to create like notification: %w", err)
	}
	if created {
		metrics.NotificationsEmitted.WithLabelValues(string(domain.NotifLike)).Inc()
	}
	return created, nil
}

func (s *service) RetractLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	removed, err := s.notifRepo.DeleteLike(ctx, postID, actorID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("failed to delete like notification: %w", err)
	}
	return removed, nil
}

func (s *service) HasLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	return s.notifRepo.LikeExists(ctx, postID, actorID)
}

func (s *service) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	return s.notifRepo.CountLikes(ctx, postID)
}
