package models

import "context"

// MemoryMetadata is the payload stored alongside a vector. Records are
// created once and never mutated.
type MemoryMetadata struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// MemoryRecord is a single entry in the vector memory store. Values must
// have the embedding model's output dimension.
type MemoryRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata MemoryMetadata `json:"metadata"`
}

// MemoryMatch is a retrieval hit, ranked by similarity descending.
type MemoryMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata MemoryMetadata `json:"metadata"`
}

// MemoryStore is a namespaced vector upsert/query abstraction over a
// vector database.
type MemoryStore interface {
	// Query returns up to topK matches ranked by similarity descending.
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]MemoryMatch, error)
	// Upsert is fire-and-forget: callers log failures and never retry.
	Upsert(ctx context.Context, record *MemoryRecord, namespace string) error
}

// Embedder maps text to a fixed-dimension vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// SpeechClient synthesizes text into base64-encoded raw PCM audio.
type SpeechClient interface {
	Synthesize(ctx context.Context, text string) (string, error)
}
