package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ppoeval/internal/port"
)

// MockEvaluator is a mock implementation of port.Evaluator.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, input port.EvaluateInput) (*port.EvaluateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EvaluateOutput), args.Error(1)
}
