package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"blog-engagement/internal/domain"
)

type PostRepository struct {
	mock.Mock
}

func (m *PostRepository) GetAuthor(ctx context.Context, postID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *PostRepository) GetActivity(ctx context.Context, postID uuid.UUID) (*domain.PostActivity, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostActivity), args.Error(1)
}

func (m *PostRepository) IncrementCounters(ctx context.Context, postID uuid.UUID, delta domain.CounterDelta) error {
	args := m.Called(ctx, postID, delta)
	return args.Error(0)
}

func (m *PostRepository) SetCounters(ctx context.Context, postID uuid.UUID, counts domain.CounterDelta) error {
	args := m.Called(ctx, postID, counts)
	return args.Error(0)
}
