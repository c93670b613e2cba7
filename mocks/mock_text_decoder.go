package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextDecoder is a mock implementation of port.TextDecoder.
type MockTextDecoder struct {
	mock.Mock
}

func (m *MockTextDecoder) Decode(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}
