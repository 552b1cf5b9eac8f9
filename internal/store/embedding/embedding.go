// Package embedding implements the embedding-provider client consumed by
// the embedding pipeline specialization (spec §4.5): text in, vectors out.
// Grounded on the teacher's internal/agent/llm_client.go construction
// pattern (required-API-key check, thin client wrapper), using
// sashabaranov/go-openai's embeddings API since no pack repo exercises
// embeddings directly.
package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/standardbeagle/graphidx/internal/errs"
)

const defaultModelName = "text-embedding-3-small"

var modelsByName = map[string]openai.EmbeddingModel{
	"text-embedding-3-small": openai.SmallEmbedding3,
	"text-embedding-3-large": openai.LargeEmbedding3,
	"text-embedding-ada-002": openai.AdaEmbeddingV2,
}

// Provider generates vector embeddings for code text.
type Provider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// New builds a Provider for modelName. An empty modelName defaults to
// text-embedding-3-small.
func New(apiKey, modelName string) (*Provider, error) {
	if apiKey == "" {
		return nil, errs.New(errs.CategoryConfiguration, "embedding.New", fmt.Errorf("OpenAI API key is required"))
	}

	if modelName == "" {
		modelName = defaultModelName
	}
	model, ok := modelsByName[modelName]
	if !ok {
		return nil, errs.New(errs.CategoryConfiguration, "embedding.New", fmt.Errorf("unknown embedding model %q", modelName))
	}

	return &Provider{client: openai.NewClient(apiKey), model: model}, nil
}

// Embed returns one vector per input text, in the same order as texts.
func (p *Provider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: p.model,
	})
	if err != nil {
		return nil, errs.NewStoreError("embedding_provider", errs.CategoryEmbeddingProvider, "create_embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, errs.NewStoreError("embedding_provider", errs.CategoryEmbeddingProvider, "create_embeddings",
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
