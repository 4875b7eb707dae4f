// Package chunker splits extracted text into overlapping fixed-size windows.
package chunker

import (
	"errors"
	"strings"
)

// ErrInvalidConfig reports a window configuration that cannot make progress.
var ErrInvalidConfig = errors.New("chunk size must be positive and overlap smaller than size")

// Split cuts text into windows of at most size characters, each consecutive
// pair sharing overlap characters. Windows that are empty or whitespace-only
// are dropped without shifting the start positions of later windows. The
// result is deterministic for a given input.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidConfig
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += size - overlap {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			chunks = append(chunks, window)
		}
	}
	return chunks, nil
}
