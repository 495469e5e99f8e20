package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog-engagement/internal/domain"
)

// PostRepository is the slice of the post aggregate this service is
// allowed to touch: the author lookup and the activity counters.
type PostRepository interface {
	GetAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error)
	GetActivity(ctx context.Context, postID uuid.UUID) (*domain.PostActivity, error)
	IncrementCounters(ctx context.Context, postID uuid.UUID, delta domain.CounterDelta) error
	// SetCounters overwrites the counters with absolute values.
	SetCounters(ctx context.Context, postID uuid.UUID, counts domain.CounterDelta) error
}

type postRepository struct {
	base
}

func NewPostRepository(db *sqlx.DB, timeout time.Duration) PostRepository {
	return &postRepository{base: base{db: db, timeout: timeout}}
}

func (r *postRepository) GetAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var authorID uuid.UUID
	query := `SELECT author_id FROM posts WHERE post_id = $1`
	if err := r.db.GetContext(ctx, &authorID, query, postID); err != nil {
		return uuid.Nil, translate(err)
	}
	return authorID, nil
}

func (r *postRepository) GetActivity(ctx context.Context, postID uuid.UUID) (*domain.PostActivity, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var activity domain.PostActivity
	query := `
		SELECT post_id, author_id, total_likes, total_comments, total_parent_comments, total_reads
		FROM posts WHERE post_id = $1`
	if err := r.db.GetContext(ctx, &activity, query, postID); err != nil {
		return nil, translate(err)
	}
	return &activity, nil
}

func (r *postRepository) IncrementCounters(ctx context.Context, postID uuid.UUID, delta domain.CounterDelta) error {
	if delta.IsZero() {
		return nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE posts
		SET total_comments = total_comments + $2,
			total_parent_comments = total_parent_comments + $3,
			total_likes = total_likes + $4
		WHERE post_id = $1`

	res, err := r.db.ExecContext(ctx, query, postID, delta.Comments, delta.ParentComments, delta.Likes)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepository) SetCounters(ctx context.Context, postID uuid.UUID, counts domain.CounterDelta) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE posts
		SET total_comments = $2, total_parent_comments = $3, total_likes = $4
		WHERE post_id = $1`
	res, err := r.db.ExecContext(ctx, query, postID, counts.Comments, counts.ParentComments, counts.Likes)
	if err != nil {
		return translate(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
