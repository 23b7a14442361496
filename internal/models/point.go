// Package models defines the data structures shared across the ingestion and
// retrieval pipeline.
package models

import "github.com/mesrag/mesrag/internal/metadata"

// PointPayload is the payload stored with every vector point. It is owned by
// the vector store once written; the pipeline only reads it back via search.
type PointPayload struct {
	Chunk         string            `json:"chunk"`
	SourceFile    string            `json:"source_file"`
	Standard      string            `json:"standard"`
	Part          string            `json:"part"`
	Section       *string           `json:"section"`
	RoleTags      []string          `json:"role_tags"`
	Department    string            `json:"department"`
	Language      string            `json:"language"`
	ChunkIndex    int               `json:"chunk_index"`
	Location      metadata.Location `json:"location"`
	StructureType string            `json:"structure_type"`
}

// QueryResult is a single search hit: a stored payload with its similarity
// score. Results are ephemeral and never persisted.
type QueryResult struct {
	Score   float64      `json:"score"`
	Payload PointPayload `json:"payload"`
}
