package inference

import (
	"context"
	"log"

	"github.com/jonathan/resume-analyzer/internal/llm"
)

// Embedding is either a Vector or Unavailable. Call sites switch on the
// concrete type so the unavailable branch cannot be forgotten.
type Embedding interface {
	isEmbedding()
}

// Vector is a successfully computed embedding
type Vector []float64

func (Vector) isEmbedding() {}

// Unavailable means no embedding could be produced; Reason says why
type Unavailable struct {
	Reason error
}

func (Unavailable) isEmbedding() {}

// EmbeddingSource embeds text. It never fails: every failure mode of the
// underlying capability is reported as Unavailable.
type EmbeddingSource interface {
	Embed(ctx context.Context, text string) Embedding
}

type embeddingRequest struct {
	Inputs string `json:"inputs"`
}

// RemoteEmbeddingSource calls a feature-extraction model over an endpoint list.
type RemoteEmbeddingSource struct {
	client    *Client
	endpoints []string
}

// NewEmbeddingSource creates an embedding source that tries endpoints in order.
func NewEmbeddingSource(client *Client, endpoints []string) *RemoteEmbeddingSource {
	if len(endpoints) == 0 {
		endpoints = DefaultEmbeddingEndpoints()
	}
	return &RemoteEmbeddingSource{client: client, endpoints: endpoints}
}

// Embed implements EmbeddingSource.
func (s *RemoteEmbeddingSource) Embed(ctx context.Context, text string) Embedding {
	outcome := s.client.Call(ctx, s.endpoints, embeddingRequest{Inputs: text})
	if outcome.Kind != OutcomeSuccess {
		log.Printf("[inference] Embedding %s: %v", outcome.Kind, outcome.Err())
		return Unavailable{Reason: outcome.Err()}
	}

	vec, err := decodeVector(outcome.Body)
	if err != nil {
		log.Printf("[inference] Embedding response from %s not usable: %v", outcome.Endpoint, err)
		return Unavailable{Reason: err}
	}
	return Vector(vec)
}

// LLMEmbeddingSource embeds text through a hosted model client.
type LLMEmbeddingSource struct {
	client llm.Client
}

// NewLLMEmbeddingSource wraps client as an EmbeddingSource.
func NewLLMEmbeddingSource(client llm.Client) *LLMEmbeddingSource {
	return &LLMEmbeddingSource{client: client}
}

// Embed implements EmbeddingSource.
func (s *LLMEmbeddingSource) Embed(ctx context.Context, text string) Embedding {
	vec, err := s.client.EmbedText(ctx, text)
	if err != nil {
		log.Printf("[inference] Embedding unavailable: %v", err)
		return Unavailable{Reason: err}
	}
	return Vector(vec)
}
