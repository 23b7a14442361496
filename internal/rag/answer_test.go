package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mesrag/mesrag/internal/models"
)

type stubRetriever struct {
	results []models.QueryResult
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) []models.QueryResult {
	return s.results
}

type stubCompleter struct {
	response string
	err      error
	system   string
	prompt   string
}

func (s *stubCompleter) Generate(ctx context.Context, system, prompt string) (string, error) {
	s.system = system
	s.prompt = prompt
	return s.response, s.err
}

func TestAnswer(t *testing.T) {
	retriever := &stubRetriever{results: []models.QueryResult{
		result("relevant chunk", "doc.pdf", "QA", 0.85),
	}}
	completer := &stubCompleter{response: "Here is the answer."}
	svc := NewService(retriever, completer, 0.7, nil)

	resp := svc.Answer(context.Background(), "What is the procedure?")
	if resp.Response != "Here is the answer." {
		t.Errorf("Response = %q", resp.Response)
	}
	if len(resp.Sources) != 1 || resp.Sources[0] != "doc.pdf" {
		t.Errorf("Sources = %v", resp.Sources)
	}
	if len(resp.RelevantChunks) != 1 {
		t.Fatalf("RelevantChunks = %d, want 1", len(resp.RelevantChunks))
	}
	if resp.RelevantChunks[0].Score != 0.85 {
		t.Errorf("preview score = %v", resp.RelevantChunks[0].Score)
	}
	if !strings.Contains(completer.prompt, "relevant chunk") {
		t.Error("context chunk missing from prompt")
	}
	if !strings.Contains(completer.prompt, "What is the procedure?") {
		t.Error("query missing from prompt")
	}
	if !strings.Contains(completer.system, "MESRAG") {
		t.Error("system prompt missing persona")
	}
}

func TestAnswer_stripsThinkBlocks(t *testing.T) {
	retriever := &stubRetriever{}
	completer := &stubCompleter{response: "<think>reasoning\nover lines</think>  The answer.  "}
	svc := NewService(retriever, completer, 0.7, nil)

	resp := svc.Answer(context.Background(), "question")
	if resp.Response != "The answer." {
		t.Errorf("Response = %q", resp.Response)
	}
}

func TestAnswer_completionFailure(t *testing.T) {
	retriever := &stubRetriever{results: []models.QueryResult{
		result("chunk", "doc.pdf", "QA", 0.9),
	}}
	completer := &stubCompleter{err: errors.New("ollama unreachable")}
	svc := NewService(retriever, completer, 0.7, nil)

	resp := svc.Answer(context.Background(), "question")
	if !strings.Contains(resp.Response, "ollama unreachable") {
		t.Errorf("Response = %q", resp.Response)
	}
	if len(resp.Sources) != 0 || len(resp.RelevantChunks) != 0 {
		t.Errorf("failure response should have empty sources and chunks: %+v", resp)
	}
}

func TestAnswer_emptyRetrievalStillAnswers(t *testing.T) {
	retriever := &stubRetriever{}
	completer := &stubCompleter{response: "General knowledge answer."}
	svc := NewService(retriever, completer, 0.7, nil)

	resp := svc.Answer(context.Background(), "question")
	if resp.Response != "General knowledge answer." {
		t.Errorf("Response = %q", resp.Response)
	}
	if !strings.Contains(completer.prompt, NoDocumentsContext) {
		t.Error("placeholder context missing from prompt")
	}
}

func TestPreviews_truncatesAndLimits(t *testing.T) {
	long := strings.Repeat("x", 450)
	results := []models.QueryResult{
		result(long, "a.pdf", "QA", 0.9),
		result("short", "b.pdf", "QA", 0.8),
		result("third", "c.pdf", "QA", 0.7),
		result("fourth", "d.pdf", "QA", 0.6),
	}
	got := previews(results)
	if len(got) != 3 {
		t.Fatalf("previews = %d, want 3", len(got))
	}
	if len(got[0].Chunk) != previewLength+3 || !strings.HasSuffix(got[0].Chunk, "...") {
		t.Errorf("truncated preview length = %d", len(got[0].Chunk))
	}
	if got[1].Chunk != "short..." {
		t.Errorf("preview = %q", got[1].Chunk)
	}
}
