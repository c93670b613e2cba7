package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ppoeval/internal/domain"
)

// MockEvaluationService is a mock implementation of service.EvaluationService.
type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) Evaluate(ctx context.Context, req *domain.EvaluationRequest) (*domain.EvaluationReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EvaluationReport), args.Error(1)
}

func (m *MockEvaluationService) Preview(ctx context.Context, req *domain.EvaluationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
