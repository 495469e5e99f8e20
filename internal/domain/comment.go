package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Comment struct {
	ID           uuid.UUID  `json:"id" db:"comment_id"`
	PostID       uuid.UUID  `json:"post_id" db:"post_id"`
	PostAuthorID uuid.UUID  `json:"post_author_id" db:"post_author_id"`
	AuthorID     uuid.UUID  `json:"author_id" db:"author_id"`
	ParentID     *uuid.UUID `json:"parent_id" db:"parent_id"`
	IsReply      bool       `json:"is_reply" db:"is_reply"`
	Depth        int        `json:"depth" db:"depth"`
	Body         string     `json:"comment" db:"body"`
	Children     IDList     `json:"children" db:"children"`
	CreatedAt    time.Time  `json:"commented_at" db:"created_at"`

	ReplyCount int `json:"reply_count" db:"-"`
}

// IsTopLevel reports whether the comment hangs directly off the post.
func (c *Comment) IsTopLevel() bool {
	return c.ParentID == nil
}

type CreateCommentInput struct {
	PostID         uuid.UUID  `json:"post_id"`
	PostAuthorID   *uuid.UUID `json:"post_author_id"`
	Body           string     `json:"comment" validate:"required"`
	ParentID       *uuid.UUID `json:"replying_to"`
	NotificationID *uuid.UUID `json:"notification_id"`
}

func (in *CreateCommentInput) Validate() error {
	in.Body = strings.TrimSpace(in.Body)
	if in.Body == "" {
		return fmt.Errorf("%w: comment body is empty", ErrValidation)
	}
	if in.PostID == uuid.Nil {
		return fmt.Errorf("%w: post id is required", ErrValidation)
	}
	if in.NotificationID != nil && in.ParentID == nil {
		return fmt.Errorf("%w: notification_id is only accepted on replies", ErrValidation)
	}
	return nil
}

// IDList is an ordered list of comment ids persisted as a Postgres UUID[].
type IDList []uuid.UUID

func (l IDList) Value() (driver.Value, error) {
	out := make(pq.StringArray, len(l))
	for i, id := range l {
		out[i] = id.String()
	}
	return out.Value()
}

func (l *IDList) Scan(src interface{}) error {
	var raw pq.StringArray
	if err := raw.Scan(src); err != nil {
		return err
	}
	ids := make(IDList, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid child id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	*l = ids
	return nil
}

func (l IDList) Contains(id uuid.UUID) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every occurrence of id removed.
func (l IDList) Without(id uuid.UUID) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
