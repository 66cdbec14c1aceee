package document

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns raw PDF bytes into an ordered sequence of pages of
// plain text.
type Extractor struct {
	maxFileSize int64
}

// NewExtractor creates a new text extractor with the specified size
// constraint.
func NewExtractor(maxFileSize int64) *Extractor {
	return &Extractor{
		maxFileSize: maxFileSize,
	}
}

// ExtractFile reads a PDF file from disk and extracts its pages.
func (e *Extractor) ExtractFile(path string) ([]Page, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if fileInfo.Size() > e.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), e.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	return e.Extract(data)
}

// Extract parses the byte stream as a PDF and returns one Page per
// document page, 1-indexed and in document order. The input is never
// mutated. A page whose text cannot be extracted fails the whole
// extraction; there is no per-page failure isolation.
func (e *Extractor) Extract(data []byte) ([]Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	if int64(len(data)) > e.maxFileSize {
		return nil, fmt.Errorf("document too large: %d bytes (max: %d bytes)",
			len(data), e.maxFileSize)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	pages := make([]Page, 0, reader.NumPage())
	for num := 1; num <= reader.NumPage(); num++ {
		page := reader.Page(num)
		if page.V.IsNull() {
			// Keep page numbers contiguous even when the page object
			// carries no content.
			pages = append(pages, Page{Number: num})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", num, err)
		}

		pages = append(pages, Page{Number: num, Text: text})
	}

	return pages, nil
}

// FullText concatenates all page texts with a single space between
// pages, the form the field analyzer runs over.
func FullText(pages []Page) string {
	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = page.Text
	}
	return strings.Join(texts, " ")
}
