// Package pdfextract extracts plain text from PDF documents.
package pdfextract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor implements ports.TextExtractor for PDF input.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText pulls the text of every page, separated by page breaks. Pages
// that fail to parse are skipped; an entirely image-based PDF yields a
// placeholder rather than an error.
func (e *Extractor) ExtractText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var textBuilder strings.Builder

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// some pages may fail to parse
			continue
		}

		if text != "" {
			if textBuilder.Len() > 0 {
				textBuilder.WriteString("\n\n---\n\n")
			}
			textBuilder.WriteString(text)
		}
	}

	extracted := textBuilder.String()
	if extracted == "" {
		extracted = fmt.Sprintf("[PDF document with %d pages - no text content extracted]", numPages)
	}

	return extracted, nil
}
