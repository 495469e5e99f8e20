package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-engagement/internal/domain"
	"blog-engagement/internal/repository/memory"
)

func TestStore_Seed(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	postID, authorID := uuid.New(), uuid.New()

	require.NoError(t, store.Seed([]string{postID.String() + ":" + authorID.String()}))

	got, err := store.Repositories().Post.GetAuthor(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, authorID, got)

	assert.Error(t, store.Seed([]string{"no-separator"}))
	assert.Error(t, store.Seed([]string{"bad:" + authorID.String()}))
	assert.Error(t, store.Seed([]string{postID.String() + ":bad"}))
}

func TestCommentRepo_DeleteUnlinksParent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	postID := uuid.New()

	parent := &domain.Comment{ID: uuid.New(), PostID: postID, Body: "p"}
	require.NoError(t, repos.Comment.Create(ctx, parent))

	parentID := parent.ID
	child := &domain.Comment{ID: uuid.New(), PostID: postID, ParentID: &parentID, IsReply: true, Depth: 1, Body: "c"}
	require.NoError(t, repos.Comment.Create(ctx, child))

	stored, err := repos.Comment.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IDList{child.ID}, stored.Children)

	// Mutating a returned copy must not reach the store.
	stored.Children[0] = uuid.New()
	again, err := repos.Comment.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, again.Children[0])

	removed, err := repos.Comment.Delete(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, child.ID, removed.ID)

	again, err = repos.Comment.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Children)

	_, err = repos.Comment.Delete(ctx, child.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	orphan := &domain.Comment{ID: uuid.New(), PostID: postID, ParentID: &child.ID, IsReply: true, Depth: 2, Body: "o"}
	assert.ErrorIs(t, repos.Comment.Create(ctx, orphan), domain.ErrNotFound)
}

func TestCommentRepo_ListByParent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	postID := uuid.New()

	root := &domain.Comment{ID: uuid.New(), PostID: postID, Body: "root"}
	require.NoError(t, repos.Comment.Create(ctx, root))
	rootID := root.ID
	child := &domain.Comment{ID: uuid.New(), PostID: postID, ParentID: &rootID, IsReply: true, Depth: 1, Body: "child"}
	require.NoError(t, repos.Comment.Create(ctx, child))

	_, err := repos.Comment.Delete(ctx, root.ID)
	require.NoError(t, err)

	leftovers, err := repos.Comment.ListByParent(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, leftovers, 1)
	assert.Equal(t, child.ID, leftovers[0].ID)

	none, err := repos.Comment.ListByParent(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotificationRepo_SetReply(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	target, commentID := uuid.New(), uuid.New()

	notif := &domain.Notification{ID: uuid.New(), Kind: domain.NotifComment, PostID: uuid.New(), ActorID: uuid.New(), TargetID: target, CommentID: &commentID}
	require.NoError(t, repos.Notification.Create(ctx, notif))

	replyID := uuid.New()
	assert.ErrorIs(t, repos.Notification.SetReply(ctx, notif.ID, uuid.New(), commentID, replyID), domain.ErrNotFound)
	assert.ErrorIs(t, repos.Notification.SetReply(ctx, notif.ID, target, uuid.New(), replyID), domain.ErrNotFound)

	stored, err := repos.Notification.GetByID(ctx, notif.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ReplyID)

	require.NoError(t, repos.Notification.SetReply(ctx, notif.ID, target, commentID, replyID))
	stored, err = repos.Notification.GetByID(ctx, notif.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReplyID)
	assert.Equal(t, replyID, *stored.ReplyID)
}

func TestNotificationRepo_FeedOrderIsTotal(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SetClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
	repos := store.Repositories()
	target := uuid.New()

	for i := 0; i < 9; i++ {
		require.NoError(t, repos.Notification.Create(ctx, &domain.Notification{
			ID: uuid.New(), Kind: domain.NotifComment, PostID: uuid.New(), ActorID: uuid.New(), TargetID: target,
		}))
	}

	first, err := repos.Notification.ListFeed(ctx, target, domain.FilterAll, 0, 9)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := repos.Notification.ListFeed(ctx, target, domain.FilterAll, 0, 9)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i-1].ID.String(), first[i].ID.String())
	}
}
