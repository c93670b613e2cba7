// Package app wires configuration into the evaluation pipeline shared by the
// HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"log"

	"ppoeval/internal/config"
	"ppoeval/internal/email/noop"
	"ppoeval/internal/email/ses"
	"ppoeval/internal/evaluator"
	"ppoeval/internal/evaluator/providers"
	"ppoeval/internal/extractor"
	"ppoeval/internal/port"
	"ppoeval/internal/reference"
	"ppoeval/internal/service"
	"ppoeval/internal/storage/local"
	s3storage "ppoeval/internal/storage/s3"
)

// App holds the long-lived components built once per process.
type App struct {
	Config    *config.Config
	Source    port.ReferenceSource
	Extractor *extractor.Extractor
	Loader    *reference.Loader
	Evaluator port.Evaluator
	Sender    port.ReportSender
	Service   service.EvaluationService
}

// New builds every component from cfg. When the reference cache is enabled
// for a local source, a watcher bound to ctx keeps it fresh.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	providers.RegisterAll()

	eval, err := evaluator.NewEvaluator(&cfg.Evaluator)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize evaluator: %w", err)
	}
	if cfg.Evaluator.APIKey == "" {
		log.Printf("app.New: WARNING no API key for evaluator %q; evaluations will fail until one is configured", cfg.Evaluator.Provider)
	}

	source, err := newReferenceSource(&cfg.References)
	if err != nil {
		return nil, err
	}

	ext := extractor.New()
	loader := reference.NewLoader(source, ext, cfg.References.Files, cfg.References.CacheEnabled)
	if cfg.References.CacheEnabled && cfg.References.Source != "s3" {
		if err := loader.Watch(ctx, cfg.References.Dir); err != nil {
			log.Printf("app.New: reference cache watcher disabled: %v", err)
		}
	}

	sender, err := newReportSender(&cfg.Email)
	if err != nil {
		return nil, err
	}

	svc := service.NewEvaluationService(loader, ext, eval, sender, service.EvaluationOptions{
		MaxReferenceChars: cfg.Prompt.MaxReferenceChars,
		EmailSubject:      cfg.Email.Subject,

		AllowedRecipientDomains: cfg.Email.AllowedRecipientDomains,
	})

	return &App{
		Config:    cfg,
		Source:    source,
		Extractor: ext,
		Loader:    loader,
		Evaluator: eval,
		Sender:    sender,
		Service:   svc,
	}, nil
}

func newReferenceSource(cfg *config.ReferencesConfig) (port.ReferenceSource, error) {
	switch cfg.Source {
	case "s3":
		src, err := s3storage.NewS3Source(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 reference source: %w", err)
		}
		log.Printf("app.New: reading references from s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
		return src, nil
	case "local", "":
		log.Printf("app.New: reading references from %s", cfg.Dir)
		return local.NewSource(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown reference source: %s", cfg.Source)
	}
}

func newReportSender(cfg *config.EmailConfig) (port.ReportSender, error) {
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "noop", "":
		return noop.NewNoopSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
