package model

import "time"

// Document is the metadata record for one ingested upload. It is created
// once on successful ingestion and never mutated afterwards.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ChunksCount int       `json:"chunks_count"`
}
