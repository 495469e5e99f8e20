package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"blog-engagement/internal/domain"
)

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) HasUnseen(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, query domain.FeedQuery) (domain.PaginatedResponse[domain.NotificationView], error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).(domain.PaginatedResponse[domain.NotificationView]), args.Error(1)
}

func (m *NotificationService) Count(ctx context.Context, userID uuid.UUID, filter domain.NotificationFilter) (int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) NotifyComment(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *NotificationService) NotifyReply(ctx context.Context, reply *domain.Comment, parent *domain.Comment) error {
	args := m.Called(ctx, reply, parent)
	return args.Error(0)
}

func (m *NotificationService) CheckReplyTarget(ctx context.Context, notificationID, replierID, parentID uuid.UUID) error {
	args := m.Called(ctx, notificationID, replierID, parentID)
	return args.Error(0)
}

func (m *NotificationService) AttachReply(ctx context.Context, notificationID uuid.UUID, reply *domain.Comment) error {
	args := m.Called(ctx, notificationID, reply)
	return args.Error(0)
}

func (m *NotificationService) PurgeForComment(ctx context.Context, commentID uuid.UUID) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

func (m *NotificationService) NotifyLike(ctx context.Context, postID, actorID, postAuthorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, actorID, postAuthorID)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationService) RetractLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, actorID)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationService) HasLike(ctx context.Context, postID, actorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, postID, actorID)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationService) CountLikes(ctx context.Context, postID uuid.UUID) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}
