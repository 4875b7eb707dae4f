package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmind/internal/ai"
	"docmind/internal/extract"
	"docmind/internal/repository"
)

func newIngestFixture(t *testing.T) (*IngestService, *repository.DocumentRepository, *fakeVectorStore, *fakeEmbedder) {
	t.Helper()
	repo := repository.NewDocumentRepository(t.TempDir())
	store := newFakeVectorStore()
	embedder := &fakeEmbedder{}
	svc := NewIngestService(repo, store, embedder, 1000, 200)
	return svc, repo, store, embedder
}

func TestIngest_PlainText(t *testing.T) {
	svc, repo, store, embedder := newIngestFixture(t)

	data := []byte(strings.Repeat("a", 2500))
	doc, err := svc.Ingest(context.Background(), "notes.txt", data)
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, 4, doc.ChunksCount)
	assert.False(t, doc.UploadedAt.IsZero())

	// One embedding per chunk, all document-side.
	require.Len(t, embedder.calls, 4)
	for _, call := range embedder.calls {
		assert.Equal(t, ai.PurposeDocument, call.purpose)
	}

	// Chunk ids carry the document id and a contiguous zero-based ordinal.
	require.Len(t, store.upserts, 4)
	for i, up := range store.upserts {
		assert.Equal(t, fmt.Sprintf("%s_%d", doc.ID, i), up.chunkID)
		assert.Equal(t, doc.ID, up.meta.DocID)
		assert.Equal(t, "notes.txt", up.meta.Filename)
		assert.Equal(t, i, up.meta.ChunkIndex)
	}

	persisted, ok := repo.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, doc.ChunksCount, persisted.ChunksCount)
}

func TestIngest_UnsupportedExtension(t *testing.T) {
	svc, repo, store, embedder := newIngestFixture(t)

	_, err := svc.Ingest(context.Background(), "slides.docx", []byte("anything"))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	// Nothing reached the backends.
	assert.Empty(t, embedder.calls)
	assert.Empty(t, store.upserts)
	assert.Empty(t, repo.List())
}

func TestIngest_NoExtractableText(t *testing.T) {
	svc, repo, _, _ := newIngestFixture(t)

	_, err := svc.Ingest(context.Background(), "blank.txt", []byte("   \n  "))
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.Empty(t, repo.List())
}

func TestIngest_EncryptedDocument(t *testing.T) {
	svc, repo, store, embedder := newIngestFixture(t)
	svc.extractText = func(string, []byte) (string, error) {
		return "", extract.ErrEncryptedDocument
	}

	_, err := svc.Ingest(context.Background(), "secret.pdf", []byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrInvalidDocument)
	assert.ErrorIs(t, err, extract.ErrEncryptedDocument)

	// Nothing is persisted anywhere.
	assert.Empty(t, embedder.calls)
	assert.Empty(t, store.upserts)
	assert.Empty(t, repo.List())
}

func TestIngest_MidSequenceUpsertFailure(t *testing.T) {
	svc, repo, store, _ := newIngestFixture(t)
	store.failAtIndex = 2

	data := []byte(strings.Repeat("a", 2500))
	_, err := svc.Ingest(context.Background(), "notes.txt", data)
	assert.ErrorIs(t, err, ErrIngestionFailed)

	// Chunks written before the failure stay behind as orphans, but no
	// metadata ever references the document.
	assert.Len(t, store.upserts, 2)
	assert.Empty(t, repo.List())
}

func TestIngest_EmbeddingFailure(t *testing.T) {
	svc, repo, store, embedder := newIngestFixture(t)
	embedder.err = errors.New("backend down")

	_, err := svc.Ingest(context.Background(), "notes.txt", []byte("some text"))
	assert.ErrorIs(t, err, ErrIngestionFailed)
	assert.Empty(t, store.upserts)
	assert.Empty(t, repo.List())
}

func TestDeleteDocument(t *testing.T) {
	svc, repo, store, _ := newIngestFixture(t)

	doc, err := svc.Ingest(context.Background(), "notes.txt", []byte("some text to index"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDocument(context.Background(), doc.ID))
	assert.Equal(t, []string{doc.ID}, store.deletedDocs)
	_, ok := repo.Get(doc.ID)
	assert.False(t, ok)
}

func TestDeleteDocument_Unknown(t *testing.T) {
	svc, _, store, _ := newIngestFixture(t)

	err := svc.DeleteDocument(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.deletedDocs)
}

func TestReset(t *testing.T) {
	svc, repo, store, _ := newIngestFixture(t)

	_, err := svc.Ingest(context.Background(), "notes.txt", []byte("some text to index"))
	require.NoError(t, err)

	require.NoError(t, svc.Reset(context.Background()))
	assert.Equal(t, 1, store.resets)
	assert.Empty(t, repo.List())
}

func TestReconcileOrphans(t *testing.T) {
	svc, _, store, _ := newIngestFixture(t)

	doc, err := svc.Ingest(context.Background(), "notes.txt", []byte("some text to index"))
	require.NoError(t, err)

	// The index also holds chunks of a document the metadata store has
	// never heard of, e.g. from an ingestion that failed halfway.
	store.storedDocIDs = []string{doc.ID, "orphan-doc"}

	swept, err := svc.ReconcileOrphans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, []string{"orphan-doc"}, store.deletedDocs)
}

func TestReconcileOrphans_NothingToSweep(t *testing.T) {
	svc, _, store, _ := newIngestFixture(t)
	store.storedDocIDs = nil

	swept, err := svc.ReconcileOrphans(context.Background())
	require.NoError(t, err)
	assert.Zero(t, swept)
	assert.Empty(t, store.deletedDocs)
}
