package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/mesrag/mesrag/internal/embedding"
	"github.com/mesrag/mesrag/internal/models"
)

type stubSearcher struct {
	results []models.QueryResult
	err     error
	limit   int
}

func (s *stubSearcher) Search(ctx context.Context, vector []float32, limit int) ([]models.QueryResult, error) {
	s.limit = limit
	return s.results, s.err
}

type brokenEmbedder struct{}

func (brokenEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding service down")
}

func (brokenEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("embedding service down")
}

func TestRetrieve(t *testing.T) {
	store := &stubSearcher{results: []models.QueryResult{
		{Score: 0.9, Payload: models.PointPayload{Chunk: "relevant"}},
		{Score: 0.5, Payload: models.PointPayload{Chunk: "less relevant"}},
	}}
	engine := NewEngine(embedding.NewMockEmbedder(8), store, 3, nil)

	results := engine.Retrieve(context.Background(), "how does batching work")
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Payload.Chunk != "relevant" {
		t.Errorf("first chunk = %q", results[0].Payload.Chunk)
	}
	if store.limit != 3 {
		t.Errorf("search limit = %d, want 3", store.limit)
	}
}

func TestRetrieve_embedFailureDegradesToEmpty(t *testing.T) {
	store := &stubSearcher{results: []models.QueryResult{{Score: 0.9}}}
	engine := NewEngine(brokenEmbedder{}, store, 5, nil)

	if results := engine.Retrieve(context.Background(), "query"); results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestRetrieve_searchFailureDegradesToEmpty(t *testing.T) {
	store := &stubSearcher{err: errors.New("qdrant unreachable")}
	engine := NewEngine(embedding.NewMockEmbedder(8), store, 5, nil)

	if results := engine.Retrieve(context.Background(), "query"); results != nil {
		t.Errorf("expected nil results, got %v", results)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		threshold float64
		want      bool
	}{
		{"best above threshold", []float64{0.9, 0.5}, 0.7, false},
		{"all below threshold", []float64{0.4, 0.3}, 0.7, true},
		{"best exactly at threshold", []float64{0.7}, 0.7, false},
		{"empty results", nil, 0.7, true},
		{"best not first", []float64{0.2, 0.8}, 0.7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []models.QueryResult
			for _, s := range tt.scores {
				results = append(results, models.QueryResult{Score: s})
			}
			if got := Fallback(results, tt.threshold); got != tt.want {
				t.Errorf("Fallback(%v, %v) = %v, want %v", tt.scores, tt.threshold, got, tt.want)
			}
		})
	}
}
