// Package evaluator assembles the evaluation prompt and selects the
// generative model provider that answers it.
package evaluator

import (
	"fmt"
	"sort"
	"sync"

	"ppoeval/internal/config"
	"ppoeval/internal/port"
)

// ProviderFactory creates an Evaluator from the evaluator config.
type ProviderFactory func(cfg *config.EvaluatorConfig) (port.Evaluator, error)

var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers an evaluator provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers returns the registered provider names, sorted.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEvaluator creates an Evaluator from the config using the registered factory.
func NewEvaluator(cfg *config.EvaluatorConfig) (port.Evaluator, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown evaluator provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
