package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ppoeval/internal/domain"
	"ppoeval/internal/evaluator"
	"ppoeval/internal/port"
)

// EvaluationOptions tunes prompt assembly and report delivery.
type EvaluationOptions struct {
	MaxReferenceChars int
	EmailSubject      string

	// AllowedRecipientDomains lists the e-mail domains reports may be sent
	// to. When empty, every request naming a recipient is rejected.
	AllowedRecipientDomains []string
}

// EvaluationService defines the PPO evaluation contract.
type EvaluationService interface {
	// Evaluate runs the whole pipeline and returns the model's report verbatim.
	Evaluate(ctx context.Context, req *domain.EvaluationRequest) (*domain.EvaluationReport, error)
	// Preview returns the prompt Evaluate would send, without calling the model.
	Preview(ctx context.Context, req *domain.EvaluationRequest) (string, error)
}

type evaluationService struct {
	references port.ReferenceLoader
	extractor  port.TextExtractor
	evaluator  port.Evaluator
	sender     port.ReportSender
	opts       EvaluationOptions
}

// NewEvaluationService creates a new EvaluationService implementation.
// sender may be nil, in which case reports are never e-mailed.
func NewEvaluationService(
	references port.ReferenceLoader,
	extractor port.TextExtractor,
	eval port.Evaluator,
	sender port.ReportSender,
	opts EvaluationOptions,
) EvaluationService {
	if opts.EmailSubject == "" {
		opts.EmailSubject = "Informe de evaluación del PPO"
	}
	domains := make([]string, 0, len(opts.AllowedRecipientDomains))
	for _, d := range opts.AllowedRecipientDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}
	opts.AllowedRecipientDomains = domains
	return &evaluationService{
		references: references,
		extractor:  extractor,
		evaluator:  eval,
		sender:     sender,
		opts:       opts,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, req *domain.EvaluationRequest) (*domain.EvaluationReport, error) {
	start := time.Now()

	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	// No reference or model I/O happens without a credential.
	if cc, ok := s.evaluator.(port.CredentialChecker); ok && !cc.HasCredential() {
		log.Printf("service.Evaluate: [%s] evaluator has no API key configured", req.RequestID)
		return nil, fmt.Errorf("evaluating %s: %w", req.PPO.Name, domain.ErrMissingCredential)
	}

	prompt, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Printf("service.Evaluate: [%s] calling model for %q (%d prompt chars)", req.RequestID, req.PPO.Name, len(prompt))
	out, err := s.evaluator.Evaluate(ctx, port.EvaluateInput{
		Prompt:            prompt,
		SystemInstruction: evaluator.SystemInstruction,
	})
	if err != nil {
		log.Printf("service.Evaluate: [%s] model call failed for %q: %v", req.RequestID, req.PPO.Name, err)
		return nil, fmt.Errorf("evaluating %s: %w", req.PPO.Name, err)
	}

	report := &domain.EvaluationReport{
		ID:        uuid.New(),
		Text:      out.Text,
		ModelUsed: out.ModelUsed,
		Duration:  time.Since(start),
	}
	log.Printf("service.Evaluate: [%s] report %s ready (model=%s, %d chars, %s)",
		req.RequestID, report.ID, report.ModelUsed, len(report.Text), report.Duration.Round(time.Millisecond))

	s.deliver(ctx, req, report)
	return report, nil
}

func (s *evaluationService) Preview(ctx context.Context, req *domain.EvaluationRequest) (string, error) {
	if err := s.validateRequest(req); err != nil {
		return "", err
	}

	var (
		refs          domain.References
		ppoText       string
		precedentText string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs = s.references.LoadAll(gctx)
		return nil
	})
	g.Go(func() error {
		ppoText = s.extractor.Extract(gctx, req.PPO)
		return nil
	})
	if req.Precedent != nil {
		g.Go(func() error {
			precedentText = s.extractor.Extract(gctx, *req.Precedent)
			return nil
		})
	}
	_ = g.Wait()

	log.Printf("service.Preview: [%s] extracted %q (%s, %d chars), precedent=%t",
		req.RequestID, req.PPO.Name, req.PPO.Format(), len(ppoText), req.Precedent != nil)

	in := evaluator.PromptInput{
		References:        refs,
		PPOName:           req.PPO.Name,
		PPOText:           ppoText,
		Scores:            req.Scores,
		MaxReferenceChars: s.opts.MaxReferenceChars,
	}
	if req.Precedent != nil {
		in.HasPrecedent = true
		in.PrecedentName = req.Precedent.Name
		in.PrecedentText = precedentText
	}
	return evaluator.BuildEvaluationPrompt(in), nil
}

// deliver e-mails the report when requested. Failures are logged only.
func (s *evaluationService) deliver(ctx context.Context, req *domain.EvaluationRequest, report *domain.EvaluationReport) {
	if req.NotifyEmail == "" || s.sender == nil {
		return
	}
	if err := s.sender.SendEvaluationReport(ctx, req.NotifyEmail, s.opts.EmailSubject, report.Text); err != nil {
		log.Printf("service.Evaluate: [%s] failed to e-mail report %s to %s: %v", req.RequestID, report.ID, req.NotifyEmail, err)
		return
	}
	log.Printf("service.Evaluate: [%s] report %s e-mailed to %s", req.RequestID, report.ID, req.NotifyEmail)
}

func (s *evaluationService) validateRequest(req *domain.EvaluationRequest) error {
	if req == nil || len(req.PPO.Bytes) == 0 {
		return domain.ErrMissingUpload
	}
	if req.Precedent != nil && req.Precedent.Name == "" {
		return domain.ErrMissingPrecedentName
	}
	if req.NotifyEmail != "" && !s.recipientAllowed(req.NotifyEmail) {
		log.Printf("service.Evaluate: [%s] rejected report recipient %s", req.RequestID, req.NotifyEmail)
		return domain.ErrRecipientNotAllowed
	}
	return nil
}

// recipientAllowed matches the address domain exactly, ignoring case.
func (s *evaluationService) recipientAllowed(address string) bool {
	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return false
	}
	host := strings.ToLower(address[at+1:])
	for _, d := range s.opts.AllowedRecipientDomains {
		if host == d {
			return true
		}
	}
	return false
}
