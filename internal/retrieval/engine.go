// Package retrieval turns a user query into scored document chunks.
package retrieval

import (
	"context"

	"github.com/mesrag/mesrag/internal/embedding"
	"github.com/mesrag/mesrag/internal/models"
	"go.uber.org/zap"
)

// Searcher is the slice of the vector store the engine needs.
type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]models.QueryResult, error)
}

// Engine embeds the query text and searches the vector store for the closest
// chunks. Retrieval failures degrade to an empty result set rather than
// surfacing to the caller; the chat flow must still produce an answer.
type Engine struct {
	embedder embedding.Embedder
	store    Searcher
	limit    int
	logger   *zap.Logger
}

// NewEngine creates a retrieval engine returning at most limit results per
// query.
func NewEngine(embedder embedding.Embedder, store Searcher, limit int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = 5
	}
	return &Engine{embedder: embedder, store: store, limit: limit, logger: logger}
}

// Retrieve returns the chunks most similar to the query, ordered by score
// descending as the store returns them. Any embedding or search failure is
// logged and yields an empty slice.
func (e *Engine) Retrieve(ctx context.Context, query string) []models.QueryResult {
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.logger.Error("query embedding failed", zap.Error(err))
		return nil
	}
	results, err := e.store.Search(ctx, vector, e.limit)
	if err != nil {
		e.logger.Error("vector search failed", zap.Error(err))
		return nil
	}
	return results
}

// Fallback reports whether the results are too weak to answer from: true when
// nothing was retrieved or when the best score is below threshold.
func Fallback(results []models.QueryResult, threshold float64) bool {
	if len(results) == 0 {
		return true
	}
	best := results[0].Score
	for _, r := range results[1:] {
		if r.Score > best {
			best = r.Score
		}
	}
	return best < threshold
}
