package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mesrag/mesrag/internal/llm"
	"github.com/mesrag/mesrag/internal/models"
	"github.com/mesrag/mesrag/internal/retrieval"
	"go.uber.org/zap"
)

// Reasoning models wrap their chain of thought in <think> tags; strip those
// before returning the answer.
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

const previewLength = 200

// Retriever yields scored chunks for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) []models.QueryResult
}

// Service runs the full question-answering flow: retrieve, assemble context,
// generate, post-process.
type Service struct {
	retriever Retriever
	completer llm.CompletionClient
	threshold float64
	logger    *zap.Logger
}

// NewService creates the answering service. threshold is the minimum best
// relevance score below which the answer falls back to general knowledge.
func NewService(retriever Retriever, completer llm.CompletionClient, threshold float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		retriever: retriever,
		completer: completer,
		threshold: threshold,
		logger:    logger,
	}
}

// Answer produces a chat response for the query. It never returns an error:
// retrieval failures degrade to an empty context and completion failures
// produce an apologetic response, so the caller always has something to show.
func (s *Service) Answer(ctx context.Context, query string) models.ChatResponse {
	results := s.retriever.Retrieve(ctx, query)
	contextBlock, sources := BuildContext(results)

	fallback := retrieval.Fallback(results, s.threshold)
	s.logger.Info("context assembled",
		zap.Int("chunks", len(results)),
		zap.Bool("fallback", fallback))

	text, err := s.completer.Generate(ctx, systemPrompt, buildUserPrompt(contextBlock, query))
	if err != nil {
		s.logger.Error("completion failed", zap.Error(err))
		return models.ChatResponse{
			Response:       fmt.Sprintf("Sorry, an error occurred while processing your question: %v", err),
			Sources:        []string{},
			RelevantChunks: []models.ChunkPreview{},
		}
	}

	if sources == nil {
		sources = []string{}
	}
	return models.ChatResponse{
		Response:       stripThinking(text),
		Sources:        sources,
		RelevantChunks: previews(results),
	}
}

func stripThinking(text string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(text, ""))
}

// previews returns truncated excerpts of the top three chunks for display
// alongside the answer.
func previews(results []models.QueryResult) []models.ChunkPreview {
	out := make([]models.ChunkPreview, 0, 3)
	for _, r := range results {
		if len(out) == 3 {
			break
		}
		source := r.Payload.SourceFile
		if source == "" {
			source = "Unknown"
		}
		chunk := r.Payload.Chunk
		if len(chunk) > previewLength {
			chunk = chunk[:previewLength]
		}
		out = append(out, models.ChunkPreview{
			Chunk:  chunk + "...",
			Source: source,
			Score:  r.Score,
		})
	}
	return out
}
