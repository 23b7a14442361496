// Package rag assembles retrieved chunks into a prompt context and
// orchestrates answer generation.
package rag

import (
	"fmt"
	"strings"

	"github.com/mesrag/mesrag/internal/models"
)

// NoDocumentsContext is the context text used when retrieval finds nothing.
const NoDocumentsContext = "No relevant documents were found."

// BuildContext renders the retrieved chunks into the context block fed to the
// model, one annotated chunk per result, and collects the distinct source
// files in first-occurrence order. Empty results yield the placeholder text
// and no sources.
func BuildContext(results []models.QueryResult) (string, []string) {
	if len(results) == 0 {
		return NoDocumentsContext, nil
	}
	parts := make([]string, 0, len(results))
	var sources []string
	seen := make(map[string]bool)
	for _, r := range results {
		source := r.Payload.SourceFile
		if source == "" {
			source = "Unknown"
		}
		department := r.Payload.Department
		if department == "" {
			department = "Unknown"
		}
		parts = append(parts, fmt.Sprintf("[Source: %s, Department: %s]\n%s", source, department, r.Payload.Chunk))
		if !seen[source] {
			seen[source] = true
			sources = append(sources, source)
		}
	}
	return strings.Join(parts, "\n\n"), sources
}
