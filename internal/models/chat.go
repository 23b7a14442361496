package models

// ChatRequest is the request body for the /chat endpoint. ConversationHistory
// is accepted for forward compatibility; answers are built per request.
type ChatRequest struct {
	Query               string           `json:"query"`
	ConversationHistory []map[string]any `json:"conversation_history,omitempty"`
}

// ChunkPreview is a truncated retrieved chunk echoed back for UI citations.
type ChunkPreview struct {
	Chunk  string  `json:"chunk"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// ChatResponse is the response body for the /chat endpoint. It always exists,
// even when the pipeline failed internally; in that case Response carries the
// degraded answer and Sources/RelevantChunks are empty.
type ChatResponse struct {
	Response       string         `json:"response"`
	Sources        []string       `json:"sources"`
	RelevantChunks []ChunkPreview `json:"relevant_chunks"`
}

// ImportReport aggregates the outcome of one ingestion pass.
type ImportReport struct {
	Files    int `json:"files"`
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}
