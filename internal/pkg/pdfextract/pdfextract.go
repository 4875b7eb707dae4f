package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEncrypted reports a PDF that requires a password to read.
var ErrEncrypted = errors.New("pdf is encrypted")

// ExtractText extracts plain text from the PDF in b, page by page, in page
// order. A page that cannot be parsed is logged and skipped; the remaining
// pages are still accumulated. The returned text may be empty if no page
// yielded any text.
func ExtractText(b []byte) (string, error) {
	if len(b) == 0 {
		return "", fmt.Errorf("empty pdf input")
	}
	reader, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return "", ErrEncrypted
		}
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page.GetPlainText)
		if err != nil {
			log.Printf("pdfextract: skip page %d: %v", i, err)
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// pageText runs one page's text extraction. The pdf library panics on some
// malformed content streams instead of returning an error; those panics are
// converted to errors so the page can be skipped like any other bad page.
func pageText(extract func(fonts map[string]*pdf.Font) (string, error)) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content panicked: %v", r)
		}
	}()
	return extract(nil)
}
