package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blog-engagement/internal/domain"
)

// CommentRepository owns comment rows and the parent/child linkage.
// Create and Delete lock the rows whose child list they touch, so a reply
// can never be attached to a node that is being deleted.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Comment, error)
	ListTopLevel(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	ListChildren(ctx context.Context, parentID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error)
	// Delete removes one node and unlinks it from its parent. The returned
	// comment carries the child list as it was under the lock.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListOrphans(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	// ListByParent returns the live rows whose parent_id is parentID, even
	// when the parent row itself is gone.
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.Comment, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (total int64, parents int64, err error)
}

const commentColumns = `comment_id, post_id, post_author_id, author_id, parent_id, is_reply, depth, body, children, created_at`

type commentRepository struct {
	base
}

func NewCommentRepository(db *sqlx.DB, timeout time.Duration) CommentRepository {
	return &commentRepository{base: base{db: db, timeout: timeout}}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	defer tx.Rollback()

	if comment.ParentID != nil {
		var parentID uuid.UUID
		lock := `SELECT comment_id FROM comments WHERE comment_id = $1 FOR UPDATE`
		if err := tx.GetContext(ctx, &parentID, lock, *comment.ParentID); err != nil {
			return translate(err)
		}
	}

	if comment.Children == nil {
		comment.Children = domain.IDList{}
	}

	insert := `
		INSERT INTO comments (comment_id, post_id, post_author_id, author_id, parent_id, is_reply, depth, body, children)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`
	err = tx.QueryRowxContext(ctx, insert,
		comment.ID, comment.PostID, comment.PostAuthorID, comment.AuthorID, comment.ParentID,
		comment.IsReply, comment.Depth, comment.Body, comment.Children,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return translate(err)
	}

	if comment.ParentID != nil {
		link := `UPDATE comments SET children = array_append(children, $2) WHERE comment_id = $1`
		if _, err := tx.ExecContext(ctx, link, *comment.ParentID, comment.ID); err != nil {
			return translate(err)
		}
	}

	return translate(tx.Commit())
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comment domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE comment_id = $1`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		return nil, translate(err)
	}
	comment.ReplyCount = len(comment.Children)
	return &comment, nil
}

func (r *commentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Comment, error) {
	if len(ids) == 0 {
		return []domain.Comment{}, nil
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comments []domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE comment_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &comments, query, domain.IDList(ids)); err != nil {
		return nil, translate(err)
	}
	return withReplyCounts(comments), nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comments []domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 AND parent_id IS NULL`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, translate(err)
	}
	return withReplyCounts(comments), nil
}

func (r *commentRepository) ListChildren(ctx context.Context, parentID uuid.UUID, params domain.SkipLimit) ([]domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comments []domain.Comment
	query := `
		SELECT c.comment_id, c.post_id, c.post_author_id, c.author_id, c.parent_id, c.is_reply,
			c.depth, c.body, c.children, c.created_at
		FROM comments p
		JOIN comments c ON c.comment_id = ANY(p.children)
		WHERE p.comment_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &comments, query, parentID, params.Limit, params.Skip); err != nil {
		return nil, translate(err)
	}
	return withReplyCounts(comments), nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translate(err)
	}
	defer tx.Rollback()

	var comment domain.Comment
	lock := `SELECT ` + commentColumns + ` FROM comments WHERE comment_id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &comment, lock, id); err != nil {
		return nil, translate(err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = $1`, id); err != nil {
		return nil, translate(err)
	}

	if comment.ParentID != nil {
		unlink := `UPDATE comments SET children = array_remove(children, $2) WHERE comment_id = $1`
		if _, err := tx.ExecContext(ctx, unlink, *comment.ParentID, id); err != nil {
			return nil, translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, translate(err)
	}
	comment.ReplyCount = len(comment.Children)
	return &comment, nil
}

func (r *commentRepository) ListOrphans(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var ids []uuid.UUID
	query := `
		SELECT c.comment_id
		FROM comments c
		LEFT JOIN comments p ON p.comment_id = c.parent_id
		WHERE c.post_id = $1 AND c.parent_id IS NOT NULL AND p.comment_id IS NULL
		ORDER BY c.depth`
	if err := r.db.SelectContext(ctx, &ids, query, postID); err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (r *commentRepository) ListByParent(ctx context.Context, parentID uuid.UUID) ([]domain.Comment, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var comments []domain.Comment
	query := `SELECT ` + commentColumns + ` FROM comments WHERE parent_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &comments, query, parentID); err != nil {
		return nil, translate(err)
	}
	return withReplyCounts(comments), nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var counts struct {
		Total   int64 `db:"total"`
		Parents int64 `db:"parents"`
	}
	query := `
		SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE parent_id IS NULL) AS parents
		FROM comments WHERE post_id = $1`
	if err := r.db.GetContext(ctx, &counts, query, postID); err != nil {
		return 0, 0, translate(err)
	}
	return counts.Total, counts.Parents, nil
}

func withReplyCounts(comments []domain.Comment) []domain.Comment {
	if comments == nil {
		return []domain.Comment{}
	}
	for i := range comments {
		comments[i].ReplyCount = len(comments[i].Children)
	}
	return comments
}
