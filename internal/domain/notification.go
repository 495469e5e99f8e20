package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotifLike    NotificationKind = "like"
	NotifComment NotificationKind = "comment"
	NotifReply   NotificationKind = "reply"
)

type Notification struct {
	ID                 uuid.UUID        `json:"id" db:"notification_id"`
	Kind               NotificationKind `json:"type" db:"kind"`
	PostID             uuid.UUID        `json:"post_id" db:"post_id"`
	ActorID            uuid.UUID        `json:"actor_id" db:"actor_id"`
	TargetID           uuid.UUID        `json:"target_id" db:"target_id"`
	CommentID          *uuid.UUID       `json:"comment_id,omitempty" db:"comment_id"`
	RepliedOnCommentID *uuid.UUID       `json:"replied_on_comment_id,omitempty" db:"replied_on_comment_id"`
	ReplyID            *uuid.UUID       `json:"reply_id,omitempty" db:"reply_id"`
	Seen               bool             `json:"seen" db:"seen"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}

// NotificationView is a feed entry with the bodies of the comments it
// points at. A body is nil when the referenced comment is gone.
type NotificationView struct {
	Notification
	CommentBody          *string `json:"comment,omitempty" db:"comment_body"`
	RepliedOnCommentBody *string `json:"replied_on_comment,omitempty" db:"replied_on_comment_body"`
	ReplyBody            *string `json:"reply,omitempty" db:"reply_body"`
}

type NotificationFilter string

const (
	FilterAll     NotificationFilter = "all"
	FilterLike    NotificationFilter = NotificationFilter(NotifLike)
	FilterComment NotificationFilter = NotificationFilter(NotifComment)
	FilterReply   NotificationFilter = NotificationFilter(NotifReply)
)

func ParseNotificationFilter(s string) (NotificationFilter, error) {
	switch f := NotificationFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterLike, FilterComment, FilterReply:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown notification filter %q", ErrValidation, s)
}

// Kind returns the kind restriction for the filter, or nil for "all".
func (f NotificationFilter) Kind() *NotificationKind {
	if f == FilterAll || f == "" {
		return nil
	}
	k := NotificationKind(f)
	return &k
}

// FeedQuery selects one page of a user's notification feed.
// DeletedDocCount is how many entries the client removed from its view
// since it fetched page 1; it shifts the offset back by that amount.
type FeedQuery struct {
	Page            int                `json:"page" query:"page"`
	Filter          NotificationFilter `json:"filter" query:"filter"`
	DeletedDocCount int                `json:"deleted_doc_count" query:"deleted_doc_count"`
}

// MaxFeedPage bounds the page number so the offset stays small enough
// for the store and never overflows.
const MaxFeedPage = 10000

func (q *FeedQuery) Validate() error {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxFeedPage {
		return fmt.Errorf("%w: page must not exceed %d", ErrValidation, MaxFeedPage)
	}
	if q.DeletedDocCount < 0 {
		return fmt.Errorf("%w: deleted_doc_count must not be negative", ErrValidation)
	}
	f, err := ParseNotificationFilter(string(q.Filter))
	if err != nil {
		return err
	}
	q.Filter = f
	return nil
}

// Skip is (page-1)*pageSize - deletedDocCount, never below zero.
func (q FeedQuery) Skip(pageSize int) int {
	skip := (q.Page-1)*pageSize - q.DeletedDocCount
	if skip < 0 {
		return 0
	}
	return skip
}
