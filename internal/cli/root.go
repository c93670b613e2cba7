// Package cli implements the ppoeval command line, which runs the evaluation
// pipeline on local files without the HTTP server.
package cli

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ppoeval/internal/app"
	"ppoeval/internal/config"
)

// Builder constructs the application for commands that need the full pipeline.
type Builder func(ctx context.Context) (*app.App, error)

// DefaultBuilder loads .env and the environment configuration, then wires the app.
func DefaultBuilder(ctx context.Context) (*app.App, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

// NewRootCommand returns the ppoeval root command with every subcommand attached.
func NewRootCommand(build Builder) *cobra.Command {
	root := &cobra.Command{
		Use:   "ppoeval",
		Short: "Evaluate pedagogical project reports (PPO)",
		Long: `ppoeval extracts the text of a PPO document, combines it with the
reference documents and evaluator scores, and asks a generative model for
a structured evaluation report.`,
		SilenceUsage: true,
	}

	root.AddCommand(newExtractCommand())
	root.AddCommand(newPromptCommand(build))
	root.AddCommand(newEvaluateCommand(build))
	return root
}

