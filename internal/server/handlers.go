package server

import (
	"encoding/json"
	"net/http"

	"github.com/mesrag/mesrag/internal/models"
	"go.uber.org/zap"
)

func (s *Server) handleTriggerImport(w http.ResponseWriter, r *http.Request) {
	report, err := s.importer.Run(r.Context())
	if err != nil {
		s.logger.Error("import run failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report.Files == 0 {
		s.respondJSON(w, http.StatusOK, map[string]string{
			"status":  "OK",
			"message": "No files to import.",
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "OK",
		"imported": report.Imported,
		"failed":   report.Failed,
	})
}

type embedRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vector, err := s.embedder.Embed(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("embedding failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"vector": vector})
}

// handleChat answers a user question. Pipeline failures are reported inside
// the response body, not as HTTP errors; only a malformed request is rejected.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("chat request", zap.String("query", req.Query))
	s.respondJSON(w, http.StatusOK, s.answerer.Answer(r.Context(), req.Query))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
