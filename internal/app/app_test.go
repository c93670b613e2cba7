package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppoeval/internal/app"
	"ppoeval/internal/config"
	"ppoeval/internal/domain"
	"ppoeval/internal/evaluator/gemini"
)

func baseConfig(dir string) *config.Config {
	return &config.Config{
		Evaluator:  config.EvaluatorConfig{Provider: "gemini", APIKey: "k"},
		References: config.ReferencesConfig{Source: "local", Dir: dir},
		Email:      config.EmailConfig{Provider: "noop"},
	}
}

func TestNew_LocalGemini(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "proyecto.rtf"), []byte(`marco \par pedagógico`), 0o600))

	a, err := app.New(context.Background(), baseConfig(dir))

	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, a.Evaluator)
	assert.NoError(t, a.Source.Ping(context.Background()))
	assert.Equal(t, "marco   pedagógico", a.Loader.Load(context.Background(), domain.RoleMarco))
}

func TestNew_CachedLocalSourceStartsWatcher(t *testing.T) {
	cfg := baseConfig(t.TempDir())
	cfg.References.CacheEnabled = true
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := app.New(ctx, cfg)
	assert.NoError(t, err)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown provider", func(c *config.Config) { c.Evaluator.Provider = "llama" }, "unknown evaluator provider"},
		{"unknown source", func(c *config.Config) { c.References.Source = "ftp" }, "unknown reference source"},
		{"s3 without bucket", func(c *config.Config) { c.References.Source = "s3" }, "s3_bucket"},
		{"unknown email", func(c *config.Config) { c.Email.Provider = "smtp" }, "unknown email provider"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig(t.TempDir())
			tc.mutate(cfg)

			_, err := app.New(context.Background(), cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNew_MissingKeyStillBuilds(t *testing.T) {
	cfg := baseConfig(t.TempDir())
	cfg.Evaluator.APIKey = ""

	a, err := app.New(context.Background(), cfg)

	require.NoError(t, err)
	assert.NotNil(t, a.Service)
}
