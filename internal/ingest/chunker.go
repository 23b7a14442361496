// Package ingest provides text chunking and the document import pipeline.
package ingest

import "strings"

// ChunkWords splits text into consecutive chunks of at most size
// whitespace-delimited words; the final chunk may be shorter. Splitting is
// deterministic: identical input always yields identical chunks. Empty or
// whitespace-only text yields nil.
func ChunkWords(text string, size int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || size <= 0 {
		return nil
	}
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
