// Package providers registers the built-in evaluator providers.
package providers

import (
	"ppoeval/internal/config"
	"ppoeval/internal/evaluator"
	"ppoeval/internal/evaluator/claude"
	"ppoeval/internal/evaluator/gemini"
	"ppoeval/internal/evaluator/openai"
	"ppoeval/internal/port"
)

// RegisterAll registers the gemini, claude and openai providers.
func RegisterAll() {
	evaluator.RegisterProvider("gemini", func(cfg *config.EvaluatorConfig) (port.Evaluator, error) {
		return gemini.NewClient(cfg), nil
	})
	evaluator.RegisterProvider("claude", func(cfg *config.EvaluatorConfig) (port.Evaluator, error) {
		return claude.NewClient(cfg), nil
	})
	evaluator.RegisterProvider("openai", func(cfg *config.EvaluatorConfig) (port.Evaluator, error) {
		return openai.NewClient(cfg), nil
	})
}
