package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "text-embedding-004", config.EmbeddingModel)
}

func TestWithEmbeddingModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithEmbeddingModel("custom-embedding")

	// Original should be unchanged
	assert.Equal(t, "text-embedding-004", config.EmbeddingModel)
	assert.Equal(t, "custom-embedding", newConfig.EmbeddingModel)
	assert.Equal(t, ProviderGemini, newConfig.Provider)
}

func TestWithEmbeddingModel_Empty(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "text-embedding-004", config.WithEmbeddingModel("").EmbeddingModel)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(t.Context(), DefaultConfig(), "")
	assert.Error(t, err)
}

func TestToFloat64(t *testing.T) {
	assert.Equal(t, []float64{0.5, -1, 2}, toFloat64([]float32{0.5, -1, 2}))
	assert.Empty(t, toFloat64(nil))
}
