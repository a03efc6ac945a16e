// Package config loads and validates the service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Embedding providers
const (
	EmbeddingHuggingFace = "huggingface"
	EmbeddingGemini      = "gemini"
	EmbeddingNone        = "none" // keyword overlap only
)

// Config is the service configuration. It is read from a YAML file (JSON is
// accepted as well) and overridden by environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Inference InferenceConfig `yaml:"inference"`
	Embedding EmbeddingConfig `yaml:"embedding"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	AllowedOrigins  []string      `yaml:"allowed_origins" validate:"dive,required"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" validate:"min=1"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// InferenceConfig configures the hosted entity-recognition and embedding models
type InferenceConfig struct {
	Token              string        `yaml:"token"`
	Timeout            time.Duration `yaml:"timeout" validate:"gt=0"`
	EntityEndpoints    []string      `yaml:"entity_endpoints" validate:"dive,url"`
	EmbeddingEndpoints []string      `yaml:"embedding_endpoints" validate:"dive,url"`
}

// EmbeddingConfig selects the embedding backend
type EmbeddingConfig struct {
	Provider     string `yaml:"provider" validate:"oneof=huggingface gemini none"`
	GeminiAPIKey string `yaml:"gemini_api_key" validate:"required_if=Provider gemini"`
	GeminiModel  string `yaml:"gemini_model"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			AllowedOrigins:  []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			MaxUploadBytes:  10 << 20,
			ShutdownTimeout: 10 * time.Second,
		},
		Inference: InferenceConfig{
			Timeout: 30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider: EmbeddingHuggingFace,
		},
	}
}

// Load reads the configuration file at path, fills unset values with
// defaults and applies environment overrides. An empty path yields the
// defaults plus environment. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		cfg = fileCfg.MergeWithDefaults(*cfg)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeWithDefaults returns a copy of c with zero-valued fields taken from defaults.
func (c Config) MergeWithDefaults(defaults Config) *Config {
	result := c

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if result.Server.ShutdownTimeout == 0 {
		result.Server.ShutdownTimeout = defaults.Server.ShutdownTimeout
	}

	if result.Inference.Token == "" {
		result.Inference.Token = defaults.Inference.Token
	}
	if result.Inference.Timeout == 0 {
		result.Inference.Timeout = defaults.Inference.Timeout
	}
	if len(result.Inference.EntityEndpoints) == 0 {
		result.Inference.EntityEndpoints = defaults.Inference.EntityEndpoints
	}
	if len(result.Inference.EmbeddingEndpoints) == 0 {
		result.Inference.EmbeddingEndpoints = defaults.Inference.EmbeddingEndpoints
	}

	if result.Embedding.Provider == "" {
		result.Embedding.Provider = defaults.Embedding.Provider
	}
	if result.Embedding.GeminiAPIKey == "" {
		result.Embedding.GeminiAPIKey = defaults.Embedding.GeminiAPIKey
	}
	if result.Embedding.GeminiModel == "" {
		result.Embedding.GeminiModel = defaults.Embedding.GeminiModel
	}

	return &result
}

// ApplyEnv overrides c from PORT, HF_API_TOKEN, INFERENCE_TIMEOUT,
// CORS_ALLOWED_ORIGINS, EMBEDDING_PROVIDER and GEMINI_API_KEY.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be an integer: %q", v)
		}
		c.Server.Port = port
	}

	if v := os.Getenv("HF_API_TOKEN"); v != "" {
		c.Inference.Token = v
	}

	if v := os.Getenv("INFERENCE_TIMEOUT"); v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("config error: INFERENCE_TIMEOUT: %w", err)
		}
		c.Inference.Timeout = timeout
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Embedding.GeminiAPIKey = v
	}

	return nil
}

// Validate checks the configuration and reports every invalid field.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// parseTimeout accepts a Go duration ("45s") or a whole number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
