package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog-engagement/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	// CreateLike inserts a like event unless one already exists for the
	// (actor, post) pair and reports whether a row was written.
	CreateLike(ctx context.Context, notif *domain.Notification) (bool, error)
	DeleteLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error)
	LikeExists(ctx context.Context, postID, actorID uuid.UUID) (bool, error)
	CountLikes(ctx context.Context, postID uuid.UUID) (int64, error)
	// SetReply links replyID to the notification only while it still
	// targets targetID and points at commentID. ErrNotFound otherwise.
	SetReply(ctx context.Context, id, targetID, commentID, replyID uuid.UUID) error
	DeleteByComment(ctx context.Context, commentID uuid.UUID) (int64, error)
	ClearReply(ctx context.Context, replyID uuid.UUID) (int64, error)
	HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error)
	ListFeed(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, skip, limit int) ([]domain.NotificationView, error)
	CountFeed(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) (int64, error)
	MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type notificationRepository struct {
	base
}

func NewNotificationRepository(db *sqlx.DB, timeout time.Duration) NotificationRepository {
	return &notificationRepository{base: base{db: db, timeout: timeout}}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (notification_id, kind, post_id, actor_id, target_id, comment_id, replied_on_comment_id, reply_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.Kind, notif.PostID, notif.ActorID, notif.TargetID,
		notif.CommentID, notif.RepliedOnCommentID, notif.ReplyID,
	).Scan(&notif.CreatedAt)
	return translate(err)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var notif domain.Notification
	query := `
		SELECT notification_id, kind, post_id, actor_id, target_id, comment_id,
			replied_on_comment_id, reply_id, seen, created_at
		FROM notifications WHERE notification_id = $1`
	if err := r.db.GetContext(ctx, &notif, query, id); err != nil {
		return nil, translate(err)
	}
	return &notif, nil
}

func (r *notificationRepository) CreateLike(ctx context.Context, notif *domain.Notification) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (notification_id, kind, post_id, actor_id, target_id)
		VALUES ($1, 'like', $2, $3, $4)
		ON CONFLICT (actor_id, post_id) WHERE kind = 'like' DO NOTHING
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.PostID, notif.ActorID, notif.TargetID,
	).Scan(&notif.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translate(err)
	}
	notif.Kind = domain.NotifLike
	return true, nil
}

func (r *notificationRepository) DeleteLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `DELETE FROM notifications WHERE kind = 'like' AND post_id = $1 AND actor_id = $2`
	res, err := r.db.ExecContext(ctx, query, postID, actorID)
	if err != nil {
		return false, translate(err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *notificationRepository) LikeExists(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM notifications WHERE kind = 'like' AND post_id = $1 AND actor_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, postID, actorID)
	return exists, translate(err)
}

func (r *notificationRepository) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	query := `SELECT COUNT(*) FROM notifications WHERE kind = 'like' AND post_id = $1`
	err := r.db.GetContext(ctx, &total, query, postID)
	return total, translate(err)
}

func (r *notificationRepository) SetReply(ctx context.Context, id, targetID, commentID, replyID uuid.UUID) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE notifications SET reply_id = $4
		WHERE notification_id = $1 AND target_id = $2 AND comment_id = $3`
	res, err := r.db.ExecContext(ctx, query, id, targetID, commentID, replyID)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteByComment(ctx context.Context, commentID uuid.UUID) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE comment_id = $1`, commentID)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}

func (r *notificationRepository) ClearReply(ctx context.Context, replyID uuid.UUID) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET reply_id = NULL WHERE reply_id = $1`, replyID)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected()
}

func (r *notificationRepository) HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM notifications
			WHERE target_id = $1 AND seen = false AND actor_id <> $1
		)`
	err := r.db.GetContext(ctx, &exists, query, userID)
	return exists, translate(err)
}

func (r *notificationRepository) ListFeed(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, skip, limit int) ([]domain.NotificationView, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT n.notification_id, n.kind, n.post_id, n.actor_id, n.target_id, n.comment_id,
			n.replied_on_comment_id, n.reply_id, n.seen, n.created_at,
			c.body AS comment_body, ro.body AS replied_on_comment_body, rp.body AS reply_body
		FROM notifications n
		LEFT JOIN comments c ON c.comment_id = n.comment_id
		LEFT JOIN comments ro ON ro.comment_id = n.replied_on_comment_id
		LEFT JOIN comments rp ON rp.comment_id = n.reply_id
		WHERE n.target_id = $1 AND n.actor_id <> $1 AND ($2::text IS NULL OR n.kind = $2)
		ORDER BY n.created_at DESC, n.notification_id DESC
		LIMIT $3 OFFSET $4`

	var views []domain.NotificationView
	if err := r.db.SelectContext(ctx, &views, query, userID, filter.Kind(), limit, skip); err != nil {
		return nil, translate(err)
	}
	if views == nil {
		views = []domain.NotificationView{}
	}
	return views, nil
}

func (r *notificationRepository) CountFeed(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int64
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE target_id = $1 AND actor_id <> $1 AND ($2::text IS NULL OR kind = $2)`
	err := r.db.GetContext(ctx, &total, query, userID, filter.Kind())
	return total, translate(err)
}

func (r *notificationRepository) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE notifications SET seen = true WHERE target_id = $1 AND seen = false AND notification_id = ANY($2)`
	_, err := r.db.ExecContext(ctx, query, userID, domain.IDList(ids))
	return translate(err)
}
