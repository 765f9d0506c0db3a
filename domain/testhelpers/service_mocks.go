package testhelpers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"windfall/domain/entities"
)

// MockCaptchaVerifier is a mock implementation of CaptchaVerifier
type MockCaptchaVerifier struct {
	mock.Mock
}

func (m *MockCaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	args := m.Called(ctx, token, remoteIP)
	return args.Error(0)
}

// MockWindowService is a mock implementation of WindowService
type MockWindowService struct {
	mock.Mock
}

func (m *MockWindowService) OpenWindow(ctx context.Context, duration time.Duration, source entities.EpochSource) (*entities.WindowEpoch, error) {
	args := m.Called(ctx, duration, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WindowEpoch), args.Error(1)
}

func (m *MockWindowService) Submit(ctx context.Context, payoutMethod, payoutID, captchaToken, remoteIP string) (*entities.SubmitResult, error) {
	args := m.Called(ctx, payoutMethod, payoutID, captchaToken, remoteIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SubmitResult), args.Error(1)
}

func (m *MockWindowService) State(ctx context.Context) (*entities.WindowStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WindowStatus), args.Error(1)
}

func (m *MockWindowService) ListClaims(ctx context.Context, limit int) ([]*entities.Claim, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Claim), args.Error(1)
}

func (m *MockWindowService) RecentEpochs(ctx context.Context, limit int) ([]*entities.WindowEpoch, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WindowEpoch), args.Error(1)
}

func (m *MockWindowService) Close() {
	m.Called()
}
