package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Tracker struct {
	mock.Mock
}

func (m *Tracker) MarkOutOfSync(ctx context.Context, operation string, postID uuid.UUID, cause error) {
	m.Called(ctx, operation, postID, cause)
}

func (m *Tracker) OutOfSync(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *Tracker) Clear(ctx context.Context, postID uuid.UUID) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}
