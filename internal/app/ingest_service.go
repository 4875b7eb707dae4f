package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"docmind/internal/ai"
	"docmind/internal/chunker"
	"docmind/internal/extract"
	"docmind/internal/model"
	"docmind/internal/repository"
)

// IngestService runs the document-to-retrievable-knowledge pipeline:
// extraction, chunking, embedding, vector storage and metadata persistence.
type IngestService struct {
	repo         *repository.DocumentRepository
	store        VectorStore
	embedder     Embedder
	chunkSize    int
	chunkOverlap int

	// extractText is swappable in tests; production uses extract.Text.
	extractText func(filename string, data []byte) (string, error)
}

func NewIngestService(
	repo *repository.DocumentRepository,
	store VectorStore,
	embedder Embedder,
	chunkSize, chunkOverlap int,
) *IngestService {
	return &IngestService{
		repo:         repo,
		store:        store,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		extractText:  extract.Text,
	}
}

// Ingest processes one upload end to end and returns the persisted document
// metadata. There is no transactional rollback: when a mid-sequence chunk
// upsert fails, chunks already written stay behind as orphans unreachable
// from the metadata store.
func (s *IngestService) Ingest(ctx context.Context, filename string, data []byte) (model.Document, error) {
	docID := uuid.NewString()

	log.Printf("ingest: processing file %s, size %d bytes", filename, len(data))

	text, err := s.extractText(filename, data)
	if err != nil {
		// Encrypted, unsupported, unreadable or empty uploads are all
		// client-side rejections.
		return model.Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	log.Printf("ingest: extracted %d characters from %s", len(text), filename)

	chunks, err := chunker.Split(text, s.chunkSize, s.chunkOverlap)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrIngestionFailed, err)
	}
	log.Printf("ingest: created %d chunks for %s", len(chunks), filename)

	for i, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk, ai.PurposeDocument)
		if err != nil {
			return model.Document{}, fmt.Errorf("%w: embed chunk %d: %w", ErrIngestionFailed, i, err)
		}
		chunkID := fmt.Sprintf("%s_%d", docID, i)
		meta := model.ChunkMetadata{DocID: docID, Filename: filename, ChunkIndex: i}
		if err := s.store.Upsert(ctx, chunkID, vector, chunk, meta); err != nil {
			return model.Document{}, fmt.Errorf("%w: store chunk %d: %w", ErrIngestionFailed, i, err)
		}
	}

	doc := model.Document{
		ID:          docID,
		Filename:    filename,
		UploadedAt:  time.Now(),
		ChunksCount: len(chunks),
	}
	if err := s.repo.Put(doc); err != nil {
		return model.Document{}, fmt.Errorf("%w: persist metadata: %w", ErrIngestionFailed, err)
	}
	return doc, nil
}

// ListDocuments returns metadata for every ingested document.
func (s *IngestService) ListDocuments() []model.Document {
	return s.repo.List()
}

// DeleteDocument removes a document's chunks from the vector store and then
// its metadata. Chunks go first so a chunk-delete failure never leaves
// dangling chunks behind a missing document.
func (s *IngestService) DeleteDocument(ctx context.Context, docID string) error {
	if _, ok := s.repo.Get(docID); !ok {
		return ErrNotFound
	}
	if err := s.store.DeleteByDocument(ctx, docID); err != nil {
		return fmt.Errorf("delete chunks failed: %w", err)
	}
	if _, err := s.repo.Remove(docID); err != nil {
		return fmt.Errorf("remove metadata failed: %w", err)
	}
	return nil
}

// Reset destroys the vector index and the metadata mapping.
func (s *IngestService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset vector store failed: %w", err)
	}
	if err := s.repo.Clear(); err != nil {
		return fmt.Errorf("clear metadata failed: %w", err)
	}
	return nil
}

// ReconcileOrphans deletes vector store chunks whose document is no longer
// present in the metadata store. Such chunks are left behind when an
// ingestion fails mid-pipeline. Returns the number of documents swept.
func (s *IngestService) ReconcileOrphans(ctx context.Context) (int, error) {
	storeIDs, err := s.store.DocumentIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list vector store documents failed: %w", err)
	}
	known := make(map[string]struct{})
	for _, id := range s.repo.IDs() {
		known[id] = struct{}{}
	}

	swept := 0
	for _, id := range storeIDs {
		if _, ok := known[id]; ok {
			continue
		}
		if err := s.store.DeleteByDocument(ctx, id); err != nil {
			return swept, fmt.Errorf("sweep orphan chunks of %s failed: %w", id, err)
		}
		log.Printf("ingest: swept orphan chunks of document %s", id)
		swept++
	}
	return swept, nil
}
