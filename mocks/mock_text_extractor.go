package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ppoeval/internal/domain"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, doc domain.UploadedDocument) string {
	args := m.Called(ctx, doc)
	return args.String(0)
}
