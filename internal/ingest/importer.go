package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/mesrag/mesrag/internal/config"
	"github.com/mesrag/mesrag/internal/embedding"
	"github.com/mesrag/mesrag/internal/extract"
	"github.com/mesrag/mesrag/internal/models"
	"go.uber.org/zap"
)

// VectorGateway is the slice of the vector store the importer needs.
type VectorGateway interface {
	EnsureCollection(ctx context.Context, dim int) error
	UpsertChunks(ctx context.Context, fileName string, chunks []string, vectors [][]float32) error
}

// ImportService scans the pending directory and drives each file through
// extract, chunk, embed, and upsert, then moves it to the processed or failed
// directory. Each file's outcome is independent; a failure never aborts the
// batch. Concurrent runs over the same pending directory are not serialized
// and can race over the same file (duplicate upserts or a failed move) — an
// accepted limitation of the directory-based lifecycle.
type ImportService struct {
	cfg       config.ImportConfig
	extractor *extract.Extractor
	embedder  embedding.Embedder
	gateway   VectorGateway
	logger    *zap.Logger
}

// NewImportService creates an importer with the given dependencies.
func NewImportService(cfg config.ImportConfig, extractor *extract.Extractor, embedder embedding.Embedder, gateway VectorGateway, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		cfg:       cfg,
		extractor: extractor,
		embedder:  embedder,
		gateway:   gateway,
		logger:    logger,
	}
}

// Run performs one ingestion pass over the pending directory and returns the
// aggregate counts. Files are never revisited automatically: every scanned
// file leaves the pending directory, to processed/ on success and to failed/
// on any processing error. A file whose move fails stays where the move left
// it, is counted as failed, and is not retried; an upsert already performed
// for it is not rolled back.
func (s *ImportService) Run(ctx context.Context) (models.ImportReport, error) {
	var report models.ImportReport

	files, err := s.pendingFiles()
	if err != nil {
		return report, fmt.Errorf("scan pending directory: %w", err)
	}
	report.Files = len(files)
	if len(files) == 0 {
		s.logger.Info("no files to import")
		return report, nil
	}

	for _, path := range files {
		name := filepath.Base(path)
		processErr := s.processFile(ctx, path)
		target := s.cfg.ProcessedDir
		if processErr != nil {
			s.logger.Error("file processing failed", zap.String("file", name), zap.Error(processErr))
			target = s.cfg.FailedDir
		}
		if moveErr := moveFile(path, target); moveErr != nil {
			s.logger.Error("failed to move file", zap.String("file", name), zap.String("target", target), zap.Error(moveErr))
			report.Failed++
			continue
		}
		if processErr != nil {
			report.Failed++
		} else {
			report.Imported++
		}
	}
	return report, nil
}

// pendingFiles lists the supported documents in the pending directory, in
// stable name order.
func (s *ImportService) pendingFiles() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.PendingDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !extract.SupportedExtension(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(s.cfg.PendingDir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// processFile runs one file through the pipeline. The returned error covers
// every stage; the caller routes the file accordingly.
func (s *ImportService) processFile(ctx context.Context, path string) error {
	name := filepath.Base(path)

	text, err := s.extractor.Extract(path)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	chunks := ChunkWords(text, s.cfg.ChunkSize)
	if len(chunks) == 0 {
		return extract.ErrEmptyDocument
	}
	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(vectors) == 0 {
		return errors.New("generate embeddings: empty batch")
	}
	if err := s.gateway.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	if err := s.gateway.UpsertChunks(ctx, name, chunks, vectors); err != nil {
		return fmt.Errorf("upsert chunks: %w", err)
	}
	s.logger.Info("file processed", zap.String("file", name), zap.Int("chunks", len(chunks)))
	return nil
}

// moveFile relocates path into dir, creating dir as needed. Falls back to
// copy+remove when rename crosses filesystems.
func moveFile(path, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	target := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, target); err == nil {
		return nil
	} else if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return err
	}
	return os.Remove(path)
}
