package services

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Embedding is a pure function of (model version, input text); inputs
// longer than this are chunked and mean-pooled.
const maxEmbedChars = 8000

// Embedder produces a fixed-dimension dense vector for a span of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Available() bool
}

type geminiEmbedder struct {
	client  *genai.Client
	model   string
	chunker TextChunker
	logger  *zap.Logger
}

// NewGeminiEmbedder builds the embedding service. When the client fails to
// initialize the service degrades to a no-embeddings mode: the failure is
// logged once here and every Embed call returns ErrModelUnavailable, which
// callers treat as "skip semantic scoring".
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, logger *zap.Logger) Embedder {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Error("embedding model unavailable, semantic scoring disabled",
			zap.Error(err))
		client = nil
	}

	return &geminiEmbedder{
		client:  client,
		model:   model,
		chunker: NewTextChunker(),
		logger:  logger,
	}
}

// Available implements Embedder.
func (g *geminiEmbedder) Available() bool {
	return g != nil && g.client != nil
}

// Embed implements Embedder.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if !g.Available() {
		return nil, ErrModelUnavailable
	}

	if len(text) <= maxEmbedChars {
		return g.embedOnce(ctx, text)
	}

	// Long documents: embed chunks and mean-pool the vectors.
	chunks := g.chunker.ChunkText(text, maxEmbedChars)
	var pooled []float64
	count := 0
	for _, chunk := range chunks {
		vec, err := g.embedOnce(ctx, chunk)
		if err != nil {
			return nil, err
		}
		if pooled == nil {
			pooled = make([]float64, len(vec))
		}
		for i, v := range vec {
			pooled[i] += float64(v)
		}
		count++
	}

	if count == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	mean := make([]float32, len(pooled))
	for i, v := range pooled {
		mean[i] = float32(v / float64(count))
	}
	return mean, nil
}

func (g *geminiEmbedder) embedOnce(ctx context.Context, text string) ([]float32, error) {
	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// CosineSimilarity computes the cosine of two vectors. Zero-length or
// mismatched vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// EmbeddingSimilarity adapts an Embedder into the TextSimilarity used for
// heading resolution.
type EmbeddingSimilarity struct {
	embedder Embedder
}

func NewEmbeddingSimilarity(embedder Embedder) *EmbeddingSimilarity {
	return &EmbeddingSimilarity{embedder: embedder}
}

// Similarity implements TextSimilarity.
func (s *EmbeddingSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}

	score := CosineSimilarity(va, vb)
	if score < 0 {
		score = 0
	}
	return score, nil
}
