// Package embedding provides text embedding via the Ollama embeddings API.
package embedding

import "context"

// Embedder produces vector embeddings for text. Implementations are loaded
// once at process start and reused read-only across requests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
