package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockReportSender is a mock implementation of port.ReportSender.
type MockReportSender struct {
	mock.Mock
}

func (m *MockReportSender) SendEvaluationReport(ctx context.Context, toEmail, subject, htmlReport string) error {
	args := m.Called(ctx, toEmail, subject, htmlReport)
	return args.Error(0)
}
