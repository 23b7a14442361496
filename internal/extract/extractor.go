// Package extract provides plain-text extraction from PDF and DOCX documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions other than .pdf and .docx.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrEmptyDocument is returned when extraction yields no usable text.
var ErrEmptyDocument = errors.New("document contains no text")

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// PDF pages and DOCX paragraphs are joined by newlines; empty pages and blank
// paragraphs are skipped. Returns ErrUnsupportedFormat for other extensions
// and ErrEmptyDocument when the result is empty or whitespace-only.
func (e *Extractor) Extract(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

// SupportedExtension reports whether the file name carries an extension the
// extractor can handle.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".docx":
		return true
	}
	return false
}
