// Package extract turns an uploaded file into plain text.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docmind/internal/pkg/pdfextract"
)

var (
	// ErrEncryptedDocument reports a password-protected upload.
	ErrEncryptedDocument = errors.New("document is encrypted, provide an unencrypted file")
	// ErrNoExtractableText reports an upload with no text content, e.g. a
	// scanned or image-only PDF.
	ErrNoExtractableText = errors.New("no extractable text in document")
	// ErrUnsupportedFileType reports an extension other than .pdf or .txt.
	ErrUnsupportedFileType = errors.New("only PDF and TXT files are supported")
)

// Supported reports whether the filename has an extension the extractor
// accepts. Callers reject uploads before reading any bytes.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// Text extracts the full plain text of the upload. PDF pages are processed
// in order; plain text files are decoded as UTF-8.
func Text(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := pdfextract.ExtractText(data)
		if err != nil {
			if errors.Is(err, pdfextract.ErrEncrypted) {
				return "", ErrEncryptedDocument
			}
			return "", fmt.Errorf("extract pdf text failed: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", ErrNoExtractableText
		}
		return text, nil
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text file is not valid UTF-8")
		}
		text := string(data)
		if strings.TrimSpace(text) == "" {
			return "", ErrNoExtractableText
		}
		return text, nil
	}
	return "", ErrUnsupportedFileType
}
