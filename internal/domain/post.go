package domain

import "github.com/google/uuid"

// PostActivity is the slice of a post document this service mutates.
// Post content lives in the post service.
type PostActivity struct {
	PostID              uuid.UUID `json:"post_id" db:"post_id"`
	AuthorID            uuid.UUID `json:"author_id" db:"author_id"`
	TotalLikes          int64     `json:"total_likes" db:"total_likes"`
	TotalComments       int64     `json:"total_comments" db:"total_comments"`
	TotalParentComments int64     `json:"total_parent_comments" db:"total_parent_comments"`
	TotalReads          int64     `json:"total_reads" db:"total_reads"`
}

// CounterDelta is applied as an atomic increment, never read-modify-write.
type CounterDelta struct {
	Comments       int64
	ParentComments int64
	Likes          int64
}

func (d CounterDelta) IsZero() bool {
	return d.Comments == 0 && d.ParentComments == 0 && d.Likes == 0
}
