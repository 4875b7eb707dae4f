package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidDocument covers bad uploads: encrypted, empty, unsupported
	// or unreadable files. Rejected before anything is persisted.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrIngestionFailed covers backend failures during the ingestion
	// pipeline. Chunks written before the failure stay in the vector store
	// as orphans; no metadata ever references them.
	ErrIngestionFailed = errors.New("ingestion failed")
	ErrQueryFailed     = errors.New("query failed")
	ErrNotFound        = errors.New("document not found")
)
