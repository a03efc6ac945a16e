package inference

const (
	// EntityModel is the token-classification model used for résumé entities
	EntityModel = "dslim/bert-base-NER"
	// EmbeddingModel is the sentence-embedding model used for category similarity
	EmbeddingModel = "sentence-transformers/all-MiniLM-L6-v2"
)

// DefaultEntityEndpoints returns the primary and fallback endpoints for EntityModel.
func DefaultEntityEndpoints() []string {
	return []string{
		"https://router.huggingface.co/hf-inference/models/" + EntityModel,
		"https://api-inference.huggingface.co/models/" + EntityModel,
	}
}

// DefaultEmbeddingEndpoints returns the primary and fallback endpoints for EmbeddingModel.
func DefaultEmbeddingEndpoints() []string {
	return []string{
		"https://router.huggingface.co/hf-inference/models/" + EmbeddingModel + "/pipeline/feature-extraction",
		"https://api-inference.huggingface.co/pipeline/feature-extraction/" + EmbeddingModel,
	}
}
