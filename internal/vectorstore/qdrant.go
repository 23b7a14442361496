// Package vectorstore provides a REST gateway to a Qdrant collection.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mesrag/mesrag/internal/metadata"
	"github.com/mesrag/mesrag/internal/models"
)

// ErrDimensionMismatch is returned when the target collection already exists
// with a different vector dimensionality. The collection is unusable for this
// embedding model; nothing short of recreating it can recover.
var ErrDimensionMismatch = errors.New("collection vector dimension mismatch")

// Store is a minimal REST client to Qdrant. It assumes cosine distance.
type Store struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// Config holds Qdrant connection settings.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStore creates a Qdrant gateway for one collection.
func NewStore(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Collection returns the configured collection name.
func (s *Store) Collection() string {
	return s.collection
}

type collectionInfoResponse struct {
	Result struct {
		Config struct {
			Params struct {
				Vectors struct {
					Size int `json:"size"`
				} `json:"vectors"`
			} `json:"params"`
		} `json:"config"`
	} `json:"result"`
}

// EnsureCollection creates the collection with the given dimensionality and
// cosine distance if it does not exist. When the collection exists, its
// stored dimensionality is checked against dim and ErrDimensionMismatch is
// returned on disagreement.
func (s *Store) EnsureCollection(ctx context.Context, dim int) error {
	if dim <= 0 {
		return errors.New("invalid vector dimension")
	}
	url := fmt.Sprintf("%s/collections/%s", s.baseURL, s.collection)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("get collection: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var info collectionInfoResponse
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return fmt.Errorf("decode collection info: %w", err)
		}
		if got := info.Result.Config.Params.Vectors.Size; got != dim {
			return fmt.Errorf("%w: collection %q has size %d, embeddings have size %d",
				ErrDimensionMismatch, s.collection, got, dim)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		body := map[string]any{
			"vectors": map[string]any{
				"size":     dim,
				"distance": "Cosine",
			},
		}
		return s.putJSON(ctx, url, body)
	default:
		return fmt.Errorf("get collection %s: unexpected status %s", s.collection, resp.Status)
	}
}

type qdrantPoint struct {
	ID      string              `json:"id"`
	Vector  []float32           `json:"vector"`
	Payload models.PointPayload `json:"payload"`
}

// UpsertChunks writes one point per chunk in a single batch call. Point
// identifiers are freshly generated per upload, not derived from content, so
// re-ingesting the same file produces new, duplicate points.
func (s *Store) UpsertChunks(ctx context.Context, fileName string, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	meta := metadata.ExtractFromFilename(fileName)
	location := metadata.InferLocation(fileName)
	roles := metadata.InferRoles(meta.Department)

	points := make([]qdrantPoint, len(chunks))
	for i := range chunks {
		points[i] = qdrantPoint{
			ID:     uuid.New().String(),
			Vector: vectors[i],
			Payload: models.PointPayload{
				Chunk:         chunks[i],
				SourceFile:    fileName,
				Standard:      meta.Standard,
				Part:          meta.Part,
				Section:       nil,
				RoleTags:      roles,
				Department:    meta.Department,
				Language:      meta.Language,
				ChunkIndex:    i,
				Location:      location,
				StructureType: metadata.StructureType,
			},
		}
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", s.baseURL, s.collection)
	return s.putJSON(ctx, url, map[string]any{"points": points})
}

// Search returns up to limit nearest points with their payloads and scores.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]models.QueryResult, error) {
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []models.QueryResult `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, s.collection)
	if err := s.postJSON(ctx, url, body, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
