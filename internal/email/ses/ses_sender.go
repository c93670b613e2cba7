package ses

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"ppoeval/internal/port"
)

// emailAPI is the subset of the SES client used to deliver reports.
type emailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type sesSender struct {
	client      emailAPI
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed ReportSender.
func NewSESSender(region, fromAddress, fromName string) (port.ReportSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return newSESSender(sesv2.NewFromConfig(cfg), fromAddress, fromName), nil
}

func newSESSender(client emailAPI, fromAddress, fromName string) *sesSender {
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}
}

func (s *sesSender) SendEvaluationReport(ctx context.Context, toEmail, subject, htmlReport string) error {
	htmlBody := buildReportHTML(subject, htmlReport)
	textBody := htmlToText(htmlReport)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildReportHTML(title, report string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 720px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; font-size: 20px;">%s</h1>
  %s
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Informe generado automáticamente. Revíselo antes de comunicar un dictamen.</p>
</body>
</html>`, title, report)
}

var (
	blockTagPattern = regexp.MustCompile(`(?i)</?(h2|h3|p|ul|ol|li)\s*>`)
	anyTagPattern   = regexp.MustCompile(`<[^>]*>`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// htmlToText produces the plain-text alternative for mail clients without HTML.
func htmlToText(report string) string {
	text := blockTagPattern.ReplaceAllString(report, "\n")
	text = anyTagPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
