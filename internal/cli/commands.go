package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ppoeval/internal/domain"
	"ppoeval/internal/extractor"
)

// requestFlags are shared by the prompt and evaluate commands.
type requestFlags struct {
	ppo           string
	ppoMIME       string
	precedent     string
	precedentMIME string
	c1, c2, c3    string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ppo, "ppo", "", "path to the PPO document (required)")
	cmd.Flags().StringVar(&f.ppoMIME, "ppo-mime", "", "MIME type hint for the PPO document")
	cmd.Flags().StringVar(&f.precedent, "precedent", "", "path to a previous PPO used as precedent")
	cmd.Flags().StringVar(&f.precedentMIME, "precedent-mime", "", "MIME type hint for the precedent")
	cmd.Flags().StringVar(&f.c1, "c1", "", "clarity of objectives score (1-10)")
	cmd.Flags().StringVar(&f.c2, "c2", "", "feasibility score (1-10)")
	cmd.Flags().StringVar(&f.c3, "c3", "", "normative compliance score (1-10)")
	_ = cmd.MarkFlagRequired("ppo")
}

func (f *requestFlags) request() (*domain.EvaluationRequest, error) {
	ppo, err := readDocument(f.ppo, f.ppoMIME)
	if err != nil {
		return nil, err
	}
	req := &domain.EvaluationRequest{
		RequestID: "cli",
		PPO:       *ppo,
		Scores: domain.EvaluationScores{
			Clarity:     domain.NewScore(f.c1),
			Feasibility: domain.NewScore(f.c2),
			Compliance:  domain.NewScore(f.c3),
		},
	}
	if f.precedent != "" {
		if req.Precedent, err = readDocument(f.precedent, f.precedentMIME); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func readDocument(path, mimeType string) (*domain.UploadedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &domain.UploadedDocument{
		Bytes:    data,
		Name:     filepath.Base(path),
		MIMEType: mimeType,
	}, nil
}

func newExtractCommand() *cobra.Command {
	var mimeType string
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Print the text extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], mimeType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), extractor.New().Extract(commandContext(cmd), *doc))
			return nil
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type hint")
	return cmd
}

func newPromptCommand(build Builder) *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			a, err := build(commandContext(cmd))
			if err != nil {
				return err
			}
			prompt, err := a.Service.Preview(commandContext(cmd), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newEvaluateCommand(build Builder) *cobra.Command {
	var (
		flags  requestFlags
		email  string
		output string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a PPO and print the model's report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			req.NotifyEmail = email

			a, err := build(commandContext(cmd))
			if err != nil {
				return err
			}
			report, err := a.Service.Evaluate(commandContext(cmd), req)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(report.Text), 0o600); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				cmd.Printf("Report %s written to %s (model %s)\n", report.ID, output, report.ModelUsed)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Text)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&email, "email", "", "also e-mail the report to this address (its domain must be allowed by PPOEVAL_EMAIL_ALLOWED_RECIPIENT_DOMAINS)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
