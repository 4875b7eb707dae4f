// Package chroma is a minimal REST client to a Chroma server. It assumes
// cosine distance and creates the collection if missing.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"docmind/internal/model"
)

// ErrUnavailable marks any failed vector store operation. Callers treat it
// as fatal for the current request.
var ErrUnavailable = errors.New("vector store unavailable")

type Config struct {
	BaseURL    string
	Collection string
	Timeout    time.Duration
}

type Store struct {
	baseURL    string
	collection string
	client     *http.Client

	// mu guards collectionID: Reset recreates the collection while other
	// requests may be building URLs from the cached id.
	mu           sync.RWMutex
	collectionID string
}

func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection if it does not exist and caches its id.
func (s *Store) Init(ctx context.Context) error {
	body := map[string]interface{}{
		"name":          s.collection,
		"metadata":      map[string]string{"hnsw:space": "cosine"},
		"get_or_create": true,
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := s.doJSON(ctx, http.MethodPost, s.baseURL+"/api/v1/collections", body, &resp); err != nil {
		return err
	}
	if resp.ID == "" {
		return fmt.Errorf("%w: collection id missing in create response", ErrUnavailable)
	}
	s.mu.Lock()
	s.collectionID = resp.ID
	s.mu.Unlock()
	return nil
}

// Ping checks that the server responds.
func (s *Store) Ping(ctx context.Context) error {
	return s.doJSON(ctx, http.MethodGet, s.baseURL+"/api/v1/heartbeat", nil, nil)
}

// Upsert inserts or replaces one chunk record.
func (s *Store) Upsert(ctx context.Context, chunkID string, vector []float32, text string, meta model.ChunkMetadata) error {
	body := map[string]interface{}{
		"ids":        []string{chunkID},
		"embeddings": [][]float32{vector},
		"documents":  []string{text},
		"metadatas": []map[string]interface{}{{
			"doc_id":      meta.DocID,
			"filename":    meta.Filename,
			"chunk_index": meta.ChunkIndex,
		}},
	}
	return s.doJSON(ctx, http.MethodPost, s.collectionURL("upsert"), body, nil)
}

// Search returns up to topK chunks ordered by ascending cosine distance.
// When fewer vectors are stored than topK, all of them are returned.
func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]model.ScoredChunk, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1, got %d", topK)
	}
	count, err := s.count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	body := map[string]interface{}{
		"query_embeddings": [][]float32{vector},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	var resp struct {
		Documents [][]string                 `json:"documents"`
		Metadatas [][]map[string]interface{} `json:"metadatas"`
		Distances [][]float64                `json:"distances"`
	}
	if err := s.doJSON(ctx, http.MethodPost, s.collectionURL("query"), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Documents) == 0 {
		return nil, nil
	}

	hits := make([]model.ScoredChunk, 0, len(resp.Documents[0]))
	for i, text := range resp.Documents[0] {
		hit := model.ScoredChunk{Text: text}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			hit.Distance = resp.Distances[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = parseMetadata(resp.Metadatas[0][i])
		}
		hits = append(hits, hit)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits, nil
}

// DeleteByDocument removes every chunk whose doc_id matches. Deleting a
// document with no chunks is a no-op, not an error.
func (s *Store) DeleteByDocument(ctx context.Context, docID string) error {
	body := map[string]interface{}{
		"where": map[string]string{"doc_id": docID},
	}
	return s.doJSON(ctx, http.MethodPost, s.collectionURL("delete"), body, nil)
}

// DocumentIDs returns the distinct doc_ids present in the index.
func (s *Store) DocumentIDs(ctx context.Context) ([]string, error) {
	body := map[string]interface{}{
		"include": []string{"metadatas"},
	}
	var resp struct {
		Metadatas []map[string]interface{} `json:"metadatas"`
	}
	if err := s.doJSON(ctx, http.MethodPost, s.collectionURL("get"), body, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, meta := range resp.Metadatas {
		id, ok := meta["doc_id"].(string)
		if !ok || id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// Reset drops the collection and recreates it empty.
func (s *Store) Reset(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v1/collections/%s", s.baseURL, s.collection)
	if err := s.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		return err
	}
	return s.Init(ctx)
}

func (s *Store) count(ctx context.Context) (int, error) {
	var count int
	if err := s.doJSON(ctx, http.MethodGet, s.collectionURL("count"), nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) collectionURL(op string) string {
	s.mu.RLock()
	id := s.collectionID
	s.mu.RUnlock()
	return fmt.Sprintf("%s/api/v1/collections/%s/%s", s.baseURL, id, op)
}

func parseMetadata(raw map[string]interface{}) model.ChunkMetadata {
	meta := model.ChunkMetadata{}
	if v, ok := raw["doc_id"].(string); ok {
		meta.DocID = v
	}
	if v, ok := raw["filename"].(string); ok {
		meta.Filename = v
	}
	if v, ok := raw["chunk_index"].(float64); ok {
		meta.ChunkIndex = int(v)
	}
	return meta
}

func (s *Store) doJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response failed: %v", ErrUnavailable, err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrUnavailable, method, url, resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: parse response json failed: %v", ErrUnavailable, err)
		}
	}
	return nil
}
