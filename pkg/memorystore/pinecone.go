// Package memorystore implements the namespaced vector upsert/query
// abstraction over Pinecone's serverless HTTP API.
package memorystore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/internal"
	"github.com/rxhtt/morrigan/pkg/llms"
	"github.com/rxhtt/morrigan/pkg/models"
)

var log = internal.GetLogger()

var _ models.MemoryStore = &PineconeMemoryStore{}

// NewPineconeMemoryStore returns a store talking to the given index host.
// Callers must only construct it when both API key and host are
// configured; an unconfigured memory store is represented by a nil
// models.MemoryStore, which the gateway treats as "skip retrieval and
// upsert" without any network call.
func NewPineconeMemoryStore(cfg *config.Config) *PineconeMemoryStore {
	timeout := time.Duration(cfg.MemoryStore.Pinecone.TimeoutSeconds) * time.Second
	return &PineconeMemoryStore{
		host:   normalizeHost(cfg.MemoryStore.Pinecone.Host),
		apiKey: cfg.MemoryStore.Pinecone.APIKey,
		// Queries retry once; upserts are fire-and-forget and never retry.
		queryClient:  llms.NewRetryableHTTPClient(1, timeout).StandardClient(),
		upsertClient: llms.NewRetryableHTTPClient(0, timeout).StandardClient(),
	}
}

type PineconeMemoryStore struct {
	host         string
	apiKey       string
	queryClient  *http.Client
	upsertClient *http.Client
}

// normalizeHost accepts both a bare index host and a full URL.
func normalizeHost(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimSuffix(host, "/")
	}
	return "https://" + strings.TrimSuffix(host, "/")
}

type pineconeQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace"`
}

type pineconeQueryResponse struct {
	Matches []models.MemoryMatch `json:"matches"`
}

type pineconeUpsertRequest struct {
	Vectors   []*models.MemoryRecord `json:"vectors"`
	Namespace string                 `json:"namespace"`
}

// Query returns up to topK matches ranked by similarity descending.
// Matches missing their text metadata are dropped and logged; they never
// abort retrieval.
func (s *PineconeMemoryStore) Query(
	ctx context.Context,
	vector []float32,
	topK int,
	namespace string,
) ([]models.MemoryMatch, error) {
	body := pineconeQueryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       namespace,
	}

	var result pineconeQueryResponse
	if err := s.post(ctx, s.queryClient, "/query", body, &result); err != nil {
		return nil, err
	}

	matches := make([]models.MemoryMatch, 0, len(result.Matches))
	for _, m := range result.Matches {
		if m.Metadata.Text == "" {
			log.Warnf("skipping memory match %s: missing text metadata", m.ID)
			continue
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// Upsert writes a single record. Failures are the caller's to log; the
// store never retries and the error never surfaces to the end user.
func (s *PineconeMemoryStore) Upsert(
	ctx context.Context,
	record *models.MemoryRecord,
	namespace string,
) error {
	body := pineconeUpsertRequest{
		Vectors:   []*models.MemoryRecord{record},
		Namespace: namespace,
	}
	return s.post(ctx, s.upsertClient, "/vectors/upsert", body, nil)
}

func (s *PineconeMemoryStore) post(
	ctx context.Context,
	client *http.Client,
	path string,
	body any,
	result any,
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.host+path, bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return models.NewTransportError("pinecone", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return models.NewTransportError(
			"pinecone",
			fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path),
		)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return models.ErrMalformedResponse
	}
	return nil
}
