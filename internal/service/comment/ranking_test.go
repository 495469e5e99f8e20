package comment_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/repository"
	"blog-engagement/internal/service/comment"
	"blog-engagement/internal/service/consistency"
)

// interleavedComments runs hook once, after the first top-level read has
// returned from the store but before the caller sees the rows.
type interleavedComments struct {
	repository.CommentRepository
	once sync.Once
	hook func()
}

func (r *interleavedComments) ListTopLevel(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	rows, err := r.CommentRepository.ListTopLevel(ctx, postID)
	if r.hook != nil {
		r.once.Do(r.hook)
	}
	return rows, err
}

func newCachedService(t *testing.T, commentRepo repository.CommentRepository, repos *repository.Repositories) (comment.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := comment.NewService(commentRepo, repos.Post, consistency.NewTracker(nil, zap.NewNop()), rdb, zap.NewNop(),
		comment.Options{PageSize: 5, RankingCacheTTL: time.Minute})
	return svc, mr
}

func ids(comments []domain.Comment) []uuid.UUID {
	out := make([]uuid.UUID, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}

func TestCommentService_RankingCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Served from cache until a write", func(t *testing.T) {
		store := tickingStore()
		postID := uuid.New()
		store.RegisterPost(postID, uuid.New())
		repos := store.Repositories()
		svc, mr := newCachedService(t, repos.Comment, repos)

		a, err := svc.Create(ctx, uuid.New(), domain.CreateCommentInput{PostID: postID, Body: "A"})
		require.NoError(t, err)

		list, err := svc.List(ctx, postID, domain.SkipLimit{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID}, ids(list))
		assert.True(t, mr.Exists(fmt.Sprintf("comments:%s:ranked:1", postID)))

		b, err := svc.Create(ctx, uuid.New(), domain.CreateCommentInput{PostID: postID, Body: "B"})
		require.NoError(t, err)

		list, err = svc.List(ctx, postID, domain.SkipLimit{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{b.ID, a.ID}, ids(list))
		assert.True(t, mr.Exists(fmt.Sprintf("comments:%s:ranked:2", postID)))

		require.NoError(t, svc.Delete(ctx, b.AuthorID, b.ID))
		list, err = svc.List(ctx, postID, domain.SkipLimit{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{a.ID}, ids(list))
	})

	t.Run("Write during a cache fill is not lost", func(t *testing.T) {
		store := tickingStore()
		postID := uuid.New()
		store.RegisterPost(postID, uuid.New())
		repos := store.Repositories()

		interleaved := &interleavedComments{CommentRepository: repos.Comment}
		svc, _ := newCachedService(t, interleaved, repos)

		first, err := svc.Create(ctx, uuid.New(), domain.CreateCommentInput{PostID: postID, Body: "first"})
		require.NoError(t, err)

		var late *domain.Comment
		interleaved.hook = func() {
			var err error
			late, err = svc.Create(ctx, uuid.New(), domain.CreateCommentInput{PostID: postID, Body: "late"})
			require.NoError(t, err)
		}

		// This read started before the late comment existed and may cache
		// what it saw, but only under the version it started with.
		stale, err := svc.List(ctx, postID, domain.SkipLimit{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID}, ids(stale))
		require.NotNil(t, late)

		fresh, err := svc.List(ctx, postID, domain.SkipLimit{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{late.ID, first.ID}, ids(fresh))
	})

	t.Run("Redis down falls back to the store", func(t *testing.T) {
		store := tickingStore()
		postID := uuid.New()
		store.RegisterPost(postID, uuid.New())
		repos := store.Repositories()
		svc, mr := newCachedService(t, repos.Comment, repos)

		c, err := svc.Create(ctx, uuid.New(), domain.CreateCommentInput{PostID: postID, Body: "hi"})
		require.NoError(t, err)
		mr.Close()

		list, err := svc.List(ctx, postID, domain.SkipLimit{})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c.ID}, ids(list))
	})
}
