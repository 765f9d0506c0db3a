package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"windfall/domain/entities"
)

// MockClaimRepository is a mock implementation of ClaimRepository
type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Insert(ctx context.Context, claim *entities.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) MarkWinner(ctx context.Context, claimID int64) error {
	args := m.Called(ctx, claimID)
	return args.Error(0)
}

func (m *MockClaimRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClaimRepository) RecentWinners(ctx context.Context, limit int) ([]*entities.Claim, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Claim), args.Error(1)
}

func (m *MockClaimRepository) List(ctx context.Context, limit int) ([]*entities.Claim, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Claim), args.Error(1)
}

// MockWindowEpochRepository is a mock implementation of WindowEpochRepository
type MockWindowEpochRepository struct {
	mock.Mock
}

func (m *MockWindowEpochRepository) Create(ctx context.Context, epoch *entities.WindowEpoch) error {
	args := m.Called(ctx, epoch)
	return args.Error(0)
}

func (m *MockWindowEpochRepository) GetByID(ctx context.Context, id int64) (*entities.WindowEpoch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WindowEpoch), args.Error(1)
}

func (m *MockWindowEpochRepository) Recent(ctx context.Context, limit int) ([]*entities.WindowEpoch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WindowEpoch), args.Error(1)
}
