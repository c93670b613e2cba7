package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockReferenceSource is a mock implementation of port.ReferenceSource.
type MockReferenceSource struct {
	mock.Mock
}

func (m *MockReferenceSource) Read(ctx context.Context, name string) ([]byte, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReferenceSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
