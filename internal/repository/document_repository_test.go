package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmind/internal/model"
)

func testDoc(id string) model.Document {
	return model.Document{
		ID:          id,
		Filename:    id + ".pdf",
		UploadedAt:  time.Now().UTC().Truncate(time.Second),
		ChunksCount: 4,
	}
}

func TestDocumentRepository_PutGet(t *testing.T) {
	repo := NewDocumentRepository(t.TempDir())

	doc := testDoc("doc-1")
	require.NoError(t, repo.Put(doc))

	got, ok := repo.Get("doc-1")
	require.True(t, ok)
	assert.Equal(t, doc, got)

	_, ok = repo.Get("missing")
	assert.False(t, ok)
}

func TestDocumentRepository_List(t *testing.T) {
	repo := NewDocumentRepository(t.TempDir())
	require.NoError(t, repo.Put(testDoc("doc-1")))
	require.NoError(t, repo.Put(testDoc("doc-2")))

	list := repo.List()
	assert.Len(t, list, 2)
}

func TestDocumentRepository_Remove(t *testing.T) {
	repo := NewDocumentRepository(t.TempDir())
	require.NoError(t, repo.Put(testDoc("doc-1")))

	removed, err := repo.Remove("doc-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove("doc-1")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDocumentRepository_Clear(t *testing.T) {
	repo := NewDocumentRepository(t.TempDir())
	require.NoError(t, repo.Put(testDoc("doc-1")))
	require.NoError(t, repo.Clear())
	assert.Empty(t, repo.List())
}

func TestDocumentRepository_WriteThroughSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	repo := NewDocumentRepository(dir)
	doc := testDoc("doc-1")
	require.NoError(t, repo.Put(doc))

	// A second instance over the same directory sees the persisted state.
	reloaded := NewDocumentRepository(dir)
	got, ok := reloaded.Get("doc-1")
	require.True(t, ok)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.ChunksCount, got.ChunksCount)
}

func TestDocumentRepository_RemovePersists(t *testing.T) {
	dir := t.TempDir()

	repo := NewDocumentRepository(dir)
	require.NoError(t, repo.Put(testDoc("doc-1")))
	_, err := repo.Remove("doc-1")
	require.NoError(t, err)

	reloaded := NewDocumentRepository(dir)
	assert.Empty(t, reloaded.List())
}

func TestDocumentRepository_CorruptFileFallsBackEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, metadataFile), []byte("{not json"), 0o644))

	repo := NewDocumentRepository(dir)
	assert.Empty(t, repo.List())

	// The store still works after the fallback.
	require.NoError(t, repo.Put(testDoc("doc-1")))
	_, ok := repo.Get("doc-1")
	assert.True(t, ok)
}

func TestDocumentRepository_MissingDirCreatedOnPersist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	repo := NewDocumentRepository(dir)
	require.NoError(t, repo.Put(testDoc("doc-1")))

	_, err := os.Stat(filepath.Join(dir, metadataFile))
	assert.NoError(t, err)
}

func TestDocumentRepository_IDs(t *testing.T) {
	repo := NewDocumentRepository(t.TempDir())
	require.NoError(t, repo.Put(testDoc("doc-1")))
	require.NoError(t, repo.Put(testDoc("doc-2")))

	ids := repo.IDs()
	assert.ElementsMatch(t, []string{"doc-1", "doc-2"}, ids)
}
