package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/inference"
	"github.com/jonathan/resume-analyzer/internal/llm"
	"github.com/jonathan/resume-analyzer/internal/skills"
	"github.com/spf13/cobra"
)

// pipeline is the extractor and analyzer shared by the server and the CLI commands.
type pipeline struct {
	extractor *skills.Extractor
	analyzer  *skills.Analyzer
	closers   []io.Closer
}

// buildPipeline wires the inference adapters selected by cfg.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	client := inference.NewClient(inference.Options{
		Token:   cfg.Inference.Token,
		Timeout: cfg.Inference.Timeout,
	})

	p := &pipeline{
		extractor: skills.NewExtractor(inference.NewEntitySource(client, cfg.Inference.EntityEndpoints)),
	}

	var embeddings inference.EmbeddingSource
	switch cfg.Embedding.Provider {
	case config.EmbeddingHuggingFace:
		embeddings = inference.NewEmbeddingSource(client, cfg.Inference.EmbeddingEndpoints)
	case config.EmbeddingGemini:
		llmConfig := llm.DefaultGeminiConfig().WithEmbeddingModel(cfg.Embedding.GeminiModel)
		llmClient, err := llm.NewClient(ctx, llmConfig, cfg.Embedding.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding client: %w", err)
		}
		embeddings = inference.NewLLMEmbeddingSource(llmClient)
		p.closers = append(p.closers, llmClient)
	case config.EmbeddingNone:
		log.Printf("[skills] Embeddings disabled, using keyword scoring")
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Embedding.Provider)
	}

	p.analyzer = skills.NewAnalyzer(embeddings)
	return p, nil
}

// Close releases the pipeline's clients.
func (p *pipeline) Close() error {
	for _, c := range p.closers {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig loads the config file at path, or the defaults plus environment when path is empty.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// writeJSON prints v as indented JSON on the command's output.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
