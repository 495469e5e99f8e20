package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"blog-engagement/internal/domain"
)

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(ctx context.Context, notif *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insert(notif)
	return nil
}

func (r *notificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *n
	return &out, nil
}

func (r *notificationRepo) insert(notif *domain.Notification) {
	notif.CreatedAt = r.s.now()
	stored := *notif
	r.s.notifications[notif.ID] = &stored
}

func (r *notificationRepo) findLike(postID, actorID uuid.UUID) *domain.Notification {
	for _, n := range r.s.notifications {
		if n.Kind == domain.NotifLike && n.PostID == postID && n.ActorID == actorID {
			return n
		}
	}
	return nil
}

func (r *notificationRepo) CreateLike(ctx context.Context, notif *domain.Notification) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.findLike(notif.PostID, notif.ActorID) != nil {
		return false, nil
	}
	notif.Kind = domain.NotifLike
	r.insert(notif)
	return true, nil
}

func (r *notificationRepo) DeleteLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := r.findLike(postID, actorID)
	if n == nil {
		return false, nil
	}
	delete(r.s.notifications, n.ID)
	return true, nil
}

func (r *notificationRepo) LikeExists(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.findLike(postID, actorID) != nil, nil
}

func (r *notificationRepo) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, n := range r.s.notifications {
		if n.Kind == domain.NotifLike && n.PostID == postID {
			total++
		}
	}
	return total, nil
}

func (r *notificationRepo) SetReply(ctx context.Context, id, targetID, commentID, replyID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.TargetID != targetID || n.CommentID == nil || *n.CommentID != commentID {
		return domain.ErrNotFound
	}
	rid := replyID
	n.ReplyID = &rid
	return nil
}

func (r *notificationRepo) DeleteByComment(ctx context.Context, commentID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, notif := range r.s.notifications {
		if notif.CommentID != nil && *notif.CommentID == commentID {
			delete(r.s.notifications, id)
			n++
		}
	}
	return n, nil
}

func (r *notificationRepo) ClearReply(ctx context.Context, replyID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, notif := range r.s.notifications {
		if notif.ReplyID != nil && *notif.ReplyID == replyID {
			notif.ReplyID = nil
			n++
		}
	}
	return n, nil
}

func (r *notificationRepo) HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.TargetID == userID && !n.Seen && n.ActorID != userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepo) feed(userID uuid.UUID, filter domain.NotificationFilter) []*domain.Notification {
	kind := filter.Kind()
	var out []*domain.Notification
	for _, n := range r.s.notifications {
		if n.TargetID != userID || n.ActorID == userID {
			continue
		}
		if kind != nil && n.Kind != *kind {
			continue
		}
		out = append(out, n)
	}
	// Newest first; equal timestamps fall back to id so pages never overlap.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out
}

func (r *notificationRepo) body(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	c, ok := r.s.comments[*id]
	if !ok {
		return nil
	}
	b := c.Body
	return &b
}

func (r *notificationRepo) ListFeed(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter, skip, limit int) ([]domain.NotificationView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.feed(userID, filter)
	lo, hi := domain.SkipLimit{Skip: skip, Limit: limit}.Window(len(all))
	views := make([]domain.NotificationView, 0, hi-lo)
	for _, n := range all[lo:hi] {
		views = append(views, domain.NotificationView{
			Notification:         *n,
			CommentBody:          r.body(n.CommentID),
			RepliedOnCommentBody: r.body(n.RepliedOnCommentID),
			ReplyBody:            r.body(n.ReplyID),
		})
	}
	return views, nil
}

func (r *notificationRepo) CountFeed(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.feed(userID, filter))), nil
}

func (r *notificationRepo) MarkSeen(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if n, ok := r.s.notifications[id]; ok && n.TargetID == userID {
			n.Seen = true
		}
	}
	return nil
}
