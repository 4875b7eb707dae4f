package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"docmind/internal/model"
)

const metadataFile = "metadata.json"

// DocumentRepository maps document id to metadata, held in memory and written
// through to a JSON file on every mutation. The mutex makes the map and the
// file one critical section, so concurrent requests cannot lose updates.
type DocumentRepository struct {
	mu   sync.Mutex
	path string
	docs map[string]model.Document
}

// NewDocumentRepository loads existing metadata from dir. A missing file
// means no documents yet; an unreadable or corrupt file is logged and
// replaced with an empty mapping rather than failing startup.
func NewDocumentRepository(dir string) *DocumentRepository {
	r := &DocumentRepository{
		path: filepath.Join(dir, metadataFile),
		docs: make(map[string]model.Document),
	}
	r.load()
	return r
}

func (r *DocumentRepository) Put(doc model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return r.persist()
}

func (r *DocumentRepository) Get(id string) (model.Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	return doc, ok
}

func (r *DocumentRepository) List() []model.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]model.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		list = append(list, doc)
	}
	return list
}

// Remove deletes the document and reports whether it existed.
func (r *DocumentRepository) Remove(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	return true, r.persist()
}

func (r *DocumentRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[string]model.Document)
	return r.persist()
}

// IDs returns the ids of all known documents.
func (r *DocumentRepository) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	return ids
}

func (r *DocumentRepository) persist() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create metadata dir failed: %w", err)
	}
	data, err := json.Marshal(r.docs)
	if err != nil {
		return fmt.Errorf("marshal metadata failed: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata file failed: %w", err)
	}
	return nil
}

func (r *DocumentRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("repository: read metadata file failed, starting empty: %v", err)
		}
		return
	}
	var docs map[string]model.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		log.Printf("repository: corrupt metadata file, starting empty: %v", err)
		return
	}
	if docs != nil {
		r.docs = docs
	}
}
