package app

import (
	"context"

	"docmind/internal/ai"
	"docmind/internal/model"
)

// Embedder produces embedding vectors for document and query text.
type Embedder interface {
	Embed(ctx context.Context, text string, purpose ai.EmbedPurpose) ([]float32, error)
}

// Generator is the opaque text-completion capability: prompt in, text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VectorStore wraps the external similarity-search index.
type VectorStore interface {
	Upsert(ctx context.Context, chunkID string, vector []float32, text string, meta model.ChunkMetadata) error
	Search(ctx context.Context, vector []float32, topK int) ([]model.ScoredChunk, error)
	DeleteByDocument(ctx context.Context, docID string) error
	DocumentIDs(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
}
