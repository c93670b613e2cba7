package port

import "context"

// ReportSender delivers a finished evaluation report by e-mail.
type ReportSender interface {
	SendEvaluationReport(ctx context.Context, toEmail, subject, htmlReport string) error
}
