package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"blog-engagement/internal/domain"
)

type Repositories struct {
	Post         PostRepository
	Comment      CommentRepository
	Notification NotificationRepository
}

func NewRepositories(db *sqlx.DB, timeout time.Duration) *Repositories {
	return &Repositories{
		Post:         NewPostRepository(db, timeout),
		Comment:      NewCommentRepository(db, timeout),
		Notification: NewNotificationRepository(db, timeout),
	}
}

type base struct {
	db      *sqlx.DB
	timeout time.Duration
}

func (b base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// translate maps driver errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	}
	return err
}
