package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ppoeval/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Evaluator  EvaluatorConfig
	References ReferencesConfig
	Prompt     PromptConfig
	CORS       CORSConfig
	Email      EmailConfig
}

// EmailConfig holds report delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	Subject     string `mapstructure:"subject"`

	// AllowedRecipientDomains restricts where reports may be e-mailed.
	AllowedRecipientDomains []string `mapstructure:"allowed_recipient_domains"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EvaluatorConfig holds settings for the generative model provider.
type EvaluatorConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	// Endpoint overrides the provider URL (proxies, tests).
	Endpoint string `mapstructure:"endpoint"`
}

// Timeout returns the outbound call timeout, defaulting to 120s.
func (e *EvaluatorConfig) Timeout() time.Duration {
	if e.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(e.TimeoutSecs) * time.Second
}

// ReferencesConfig describes where the fixed reference documents live.
type ReferencesConfig struct {
	// Source is "local" or "s3".
	Source       string `mapstructure:"source"`
	Dir          string `mapstructure:"dir"`
	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Prefix     string `mapstructure:"s3_prefix"`
	S3Region     string `mapstructure:"s3_region"`
	S3Endpoint   string `mapstructure:"s3_endpoint"`
	S3AccessKey  string `mapstructure:"s3_access_key"`
	S3SecretKey  string `mapstructure:"s3_secret_key"`
	CacheEnabled bool   `mapstructure:"cache_enabled"`
	Files        map[domain.ReferenceRole]string
}

// FileName returns the configured file name for a role.
func (r *ReferencesConfig) FileName(role domain.ReferenceRole) string {
	if name := r.Files[role]; name != "" {
		return name
	}
	return domain.DefaultReferenceFiles[role]
}

// PromptConfig holds prompt assembly limits.
type PromptConfig struct {
	// MaxReferenceChars truncates each reference text; 0 disables truncation.
	MaxReferenceChars int `mapstructure:"max_reference_chars"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxBodyMB    int64         `mapstructure:"max_body_mb"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"`
	RateBurst    int           `mapstructure:"rate_burst"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the PPOEVAL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PPOEVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults. The write timeout has to outlive a slow model call.
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_mb", 30)
	v.SetDefault("server.rate_limit_rps", 0)
	v.SetDefault("server.rate_burst", 5)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Evaluator defaults
	v.SetDefault("evaluator.provider", "gemini")
	v.SetDefault("evaluator.api_key", "")
	v.SetDefault("evaluator.default_model", "gemini-1.5-flash")
	v.SetDefault("evaluator.timeout_secs", 120)
	v.SetDefault("evaluator.endpoint", "")

	// Reference defaults
	v.SetDefault("references.source", "local")
	v.SetDefault("references.dir", "data")
	v.SetDefault("references.s3_bucket", "")
	v.SetDefault("references.s3_prefix", "data/")
	v.SetDefault("references.s3_region", "us-east-1")
	v.SetDefault("references.s3_endpoint", "")
	v.SetDefault("references.cache_enabled", false)

	v.SetDefault("prompt.max_reference_chars", 0)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8888")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@ppoeval.local")
	v.SetDefault("email.from_name", "Evaluador PPO")
	v.SetDefault("email.subject", "Informe de evaluación del PPO")
	v.SetDefault("email.allowed_recipient_domains", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "PPOEVAL_SERVER_PORT",
		"server.read_timeout":             "PPOEVAL_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "PPOEVAL_SERVER_WRITE_TIMEOUT",
		"server.environment":              "PPOEVAL_SERVER_ENVIRONMENT",
		"server.max_body_mb":              "PPOEVAL_SERVER_MAX_BODY_MB",
		"server.rate_limit_rps":           "PPOEVAL_SERVER_RATE_LIMIT_RPS",
		"server.rate_burst":               "PPOEVAL_SERVER_RATE_BURST",
		"log.level":                       "PPOEVAL_LOG_LEVEL",
		"log.format":                      "PPOEVAL_LOG_FORMAT",
		"evaluator.provider":              "PPOEVAL_EVALUATOR_PROVIDER",
		"evaluator.api_key":               "PPOEVAL_EVALUATOR_API_KEY",
		"evaluator.default_model":         "PPOEVAL_EVALUATOR_DEFAULT_MODEL",
		"evaluator.timeout_secs":          "PPOEVAL_EVALUATOR_TIMEOUT_SECS",
		"evaluator.endpoint":              "PPOEVAL_EVALUATOR_ENDPOINT",
		"references.source":               "PPOEVAL_REFERENCES_SOURCE",
		"references.dir":                  "PPOEVAL_REFERENCES_DIR",
		"references.s3_bucket":            "PPOEVAL_REFERENCES_S3_BUCKET",
		"references.s3_prefix":            "PPOEVAL_REFERENCES_S3_PREFIX",
		"references.s3_region":            "PPOEVAL_REFERENCES_S3_REGION",
		"references.s3_endpoint":          "PPOEVAL_REFERENCES_S3_ENDPOINT",
		"references.s3_access_key":        "PPOEVAL_REFERENCES_S3_ACCESS_KEY",
		"references.s3_secret_key":        "PPOEVAL_REFERENCES_S3_SECRET_KEY",
		"references.cache_enabled":        "PPOEVAL_REFERENCES_CACHE_ENABLED",
		"prompt.max_reference_chars":      "PPOEVAL_PROMPT_MAX_REFERENCE_CHARS",
		"cors.allowed_origins":            "PPOEVAL_CORS_ALLOWED_ORIGINS",
		"email.provider":                  "PPOEVAL_EMAIL_PROVIDER",
		"email.region":                    "PPOEVAL_EMAIL_REGION",
		"email.from_address":              "PPOEVAL_EMAIL_FROM_ADDRESS",
		"email.from_name":                 "PPOEVAL_EMAIL_FROM_NAME",
		"email.subject":                   "PPOEVAL_EMAIL_SUBJECT",
		"email.allowed_recipient_domains": "PPOEVAL_EMAIL_ALLOWED_RECIPIENT_DOMAINS",
	}
	for _, role := range domain.AllReferenceRoles {
		key := "references.files." + string(role)
		v.SetDefault(key, domain.DefaultReferenceFiles[role])
		envBindings[key] = "PPOEVAL_REFERENCES_FILES_" + strings.ToUpper(string(role))
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PPOEVAL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PPOEVAL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxBodyMB:    v.GetInt64("server.max_body_mb"),
		RateLimitRPS: v.GetFloat64("server.rate_limit_rps"),
		RateBurst:    v.GetInt("server.rate_burst"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// The serverless deployments read GEMINI_API_KEY directly; keep honouring it.
	apiKey := v.GetString("evaluator.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.Evaluator = EvaluatorConfig{
		Provider:     v.GetString("evaluator.provider"),
		APIKey:       apiKey,
		DefaultModel: v.GetString("evaluator.default_model"),
		TimeoutSecs:  v.GetInt("evaluator.timeout_secs"),
		Endpoint:     v.GetString("evaluator.endpoint"),
	}

	refDir, err := ResolveReferenceDir(v.GetString("references.dir"))
	if err != nil {
		return nil, err
	}
	files := make(map[domain.ReferenceRole]string, len(domain.AllReferenceRoles))
	for _, role := range domain.AllReferenceRoles {
		files[role] = v.GetString("references.files." + string(role))
	}
	cfg.References = ReferencesConfig{
		Source:       v.GetString("references.source"),
		Dir:          refDir,
		S3Bucket:     v.GetString("references.s3_bucket"),
		S3Prefix:     v.GetString("references.s3_prefix"),
		S3Region:     v.GetString("references.s3_region"),
		S3Endpoint:   v.GetString("references.s3_endpoint"),
		S3AccessKey:  v.GetString("references.s3_access_key"),
		S3SecretKey:  v.GetString("references.s3_secret_key"),
		CacheEnabled: v.GetBool("references.cache_enabled"),
		Files:        files,
	}

	cfg.Prompt = PromptConfig{
		MaxReferenceChars: v.GetInt("prompt.max_reference_chars"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		Subject:     v.GetString("email.subject"),

		AllowedRecipientDomains: splitList(v.GetString("email.allowed_recipient_domains")),
	}

	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ResolveReferenceDir anchors a relative reference directory to the process
// working directory. It runs once at startup so every request sees the same path.
func ResolveReferenceDir(dir string) (string, error) {
	if dir == "" {
		dir = "data"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving reference dir %q: %w", dir, err)
	}
	return abs, nil
}
