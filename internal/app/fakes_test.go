package app

import (
	"context"
	"errors"
	"fmt"

	"docmind/internal/ai"
	"docmind/internal/model"
)

type embedCall struct {
	text    string
	purpose ai.EmbedPurpose
}

type fakeEmbedder struct {
	calls []embedCall
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string, purpose ai.EmbedPurpose) ([]float32, error) {
	f.calls = append(f.calls, embedCall{text: text, purpose: purpose})
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

type upsertCall struct {
	chunkID string
	text    string
	meta    model.ChunkMetadata
}

type fakeVectorStore struct {
	upserts     []upsertCall
	failAtIndex int // fail the upsert with this ordinal, -1 = never

	searchHits   []model.ScoredChunk
	searchErr    error
	lastTopK     int
	deletedDocs  []string
	resets       int
	storedDocIDs []string
	listErr      error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{failAtIndex: -1}
}

func (f *fakeVectorStore) Upsert(_ context.Context, chunkID string, _ []float32, text string, meta model.ChunkMetadata) error {
	if f.failAtIndex >= 0 && len(f.upserts) == f.failAtIndex {
		return fmt.Errorf("upsert %s: %w", chunkID, errors.New("index write refused"))
	}
	f.upserts = append(f.upserts, upsertCall{chunkID: chunkID, text: text, meta: meta})
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, topK int) ([]model.ScoredChunk, error) {
	f.lastTopK = topK
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if topK > len(f.searchHits) {
		return f.searchHits, nil
	}
	return f.searchHits[:topK], nil
}

func (f *fakeVectorStore) DeleteByDocument(_ context.Context, docID string) error {
	f.deletedDocs = append(f.deletedDocs, docID)
	return nil
}

func (f *fakeVectorStore) DocumentIDs(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.storedDocIDs, nil
}

func (f *fakeVectorStore) Reset(_ context.Context) error {
	f.resets++
	f.upserts = nil
	return nil
}

type fakeGenerator struct {
	prompts []string
	answer  string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
