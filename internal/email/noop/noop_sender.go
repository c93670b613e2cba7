package noop

import (
	"context"
	"log"

	"ppoeval/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a ReportSender that only logs the delivery.
func NewNoopSender() port.ReportSender {
	return &noopSender{}
}

func (s *noopSender) SendEvaluationReport(_ context.Context, toEmail, subject, htmlReport string) error {
	log.Printf("[NOOP EMAIL] Evaluation report %q for %s (%d bytes)", subject, toEmail, len(htmlReport))
	return nil
}
