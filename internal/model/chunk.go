package model

// ChunkMetadata is stored next to each vector in the index so chunks can be
// filtered and attributed back to their owning document.
type ChunkMetadata struct {
	DocID      string `json:"doc_id"`
	Filename   string `json:"filename"`
	ChunkIndex int    `json:"chunk_index"`
}

// ScoredChunk is one similarity-search hit. Distance is cosine distance,
// smaller is closer.
type ScoredChunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	Distance float64       `json:"distance"`
}

// Answer is the result of a retrieval-augmented query.
type Answer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}
