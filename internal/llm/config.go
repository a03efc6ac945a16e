// Package llm provides hosted-model configuration and client abstractions.
// It currently backs the Gemini embedding source used for category scoring.
package llm

// Provider represents a hosted model provider
type Provider string

// Provider constants define supported providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the model configuration for the application
type Config struct {
	Provider       Provider
	EmbeddingModel string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:       ProviderGemini,
		EmbeddingModel: "text-embedding-004",
	}
}

// WithEmbeddingModel returns a copy of the Config using a different embedding model.
// An empty model leaves the config unchanged.
func (c *Config) WithEmbeddingModel(model string) *Config {
	newConfig := *c
	if model != "" {
		newConfig.EmbeddingModel = model
	}
	return &newConfig
}
