package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ppoeval/internal/domain"
)

// MockReferenceLoader is a mock implementation of port.ReferenceLoader.
type MockReferenceLoader struct {
	mock.Mock
}

func (m *MockReferenceLoader) LoadAll(ctx context.Context) domain.References {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.References)
}
