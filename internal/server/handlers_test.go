package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mesrag/mesrag/internal/config"
	"github.com/mesrag/mesrag/internal/embedding"
	"github.com/mesrag/mesrag/internal/models"
	"go.uber.org/zap"
)

type stubImporter struct {
	report models.ImportReport
	err    error
}

func (s *stubImporter) Run(ctx context.Context) (models.ImportReport, error) {
	return s.report, s.err
}

type stubAnswerer struct {
	resp  models.ChatResponse
	query string
}

func (s *stubAnswerer) Answer(ctx context.Context, query string) models.ChatResponse {
	s.query = query
	return s.resp
}

func newTestServer(importer Importer, answerer Answerer) *Server {
	return NewServer(importer, embedding.NewMockEmbedder(8), answerer, config.ServerConfig{}, zap.NewNop())
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestTriggerImport(t *testing.T) {
	srv := newTestServer(&stubImporter{report: models.ImportReport{Files: 3, Imported: 2, Failed: 1}}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodPost, "/trigger-import", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "OK" || body["imported"] != float64(2) || body["failed"] != float64(1) {
		t.Errorf("body = %v", body)
	}
}

func TestTriggerImport_noFiles(t *testing.T) {
	srv := newTestServer(&stubImporter{}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodPost, "/trigger-import", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "No files to import." {
		t.Errorf("body = %v", body)
	}
}

func TestTriggerImport_scanFailure(t *testing.T) {
	srv := newTestServer(&stubImporter{err: errors.New("pending dir unreadable")}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodPost, "/trigger-import", "")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestEmbed(t *testing.T) {
	srv := newTestServer(&stubImporter{}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodPost, "/embed", `{"text":"hello"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Vector []float32 `json:"vector"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Vector) != 8 {
		t.Errorf("vector length = %d, want 8", len(body.Vector))
	}
}

func TestEmbed_invalidBody(t *testing.T) {
	srv := newTestServer(&stubImporter{}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodPost, "/embed", "not json")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestChat(t *testing.T) {
	answerer := &stubAnswerer{resp: models.ChatResponse{
		Response: "The answer.",
		Sources:  []string{"doc.pdf"},
		RelevantChunks: []models.ChunkPreview{
			{Chunk: "chunk...", Source: "doc.pdf", Score: 0.9},
		},
	}}
	srv := newTestServer(&stubImporter{}, answerer)
	rec := doRequest(t, srv, http.MethodPost, "/chat", `{"query":"what is the procedure?"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Response != "The answer." || len(body.Sources) != 1 {
		t.Errorf("body = %+v", body)
	}
	if answerer.query != "what is the procedure?" {
		t.Errorf("query = %q", answerer.query)
	}
}

func TestChat_missingQuery(t *testing.T) {
	srv := newTestServer(&stubImporter{}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodPost, "/chat", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestChat_pipelineFailureStillOK(t *testing.T) {
	answerer := &stubAnswerer{resp: models.ChatResponse{
		Response:       "Sorry, an error occurred while processing your question: ollama unreachable",
		Sources:        []string{},
		RelevantChunks: []models.ChunkPreview{},
	}}
	srv := newTestServer(&stubImporter{}, answerer)
	rec := doRequest(t, srv, http.MethodPost, "/chat", `{"query":"q"}`)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, pipeline failures must not surface as HTTP errors", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubImporter{}, &stubAnswerer{})
	rec := doRequest(t, srv, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}
