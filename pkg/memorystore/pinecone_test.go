package memorystore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxhtt/morrigan/pkg/models"
	"github.com/rxhtt/morrigan/pkg/testutils"
)

// fakePinecone is an in-memory double speaking the serverless HTTP wire
// shape: /vectors/upsert and /query.
type fakePinecone struct {
	mu      sync.Mutex
	records map[string][]*models.MemoryRecord
}

func newFakePinecone() *fakePinecone {
	return &fakePinecone{records: map[string][]*models.MemoryRecord{}}
}

func (f *fakePinecone) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/vectors/upsert", func(w http.ResponseWriter, r *http.Request) {
		var req pineconeUpsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.records[req.Namespace] = append(f.records[req.Namespace], req.Vectors...)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"upsertedCount": 1}`))
	})
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		var req pineconeQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()

		matches := make([]models.MemoryMatch, 0)
		for _, record := range f.records[req.Namespace] {
			matches = append(matches, models.MemoryMatch{
				ID:       record.ID,
				Score:    1,
				Metadata: record.Metadata,
			})
		}
		_ = json.NewEncoder(w).Encode(pineconeQueryResponse{Matches: matches})
	})
	return mux
}

func newTestStore(t *testing.T, handler http.Handler) *PineconeMemoryStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testutils.NewTestConfig()
	cfg.MemoryStore.Pinecone.APIKey = "test-key"
	cfg.MemoryStore.Pinecone.Host = server.URL

	return NewPineconeMemoryStore(cfg)
}

func TestPineconeRoundTrip(t *testing.T) {
	store := newTestStore(t, newFakePinecone().handler())

	vector := testutils.FakeVector(8)
	record := &models.MemoryRecord{
		ID:     "msg_test",
		Values: vector,
		Metadata: models.MemoryMetadata{
			Text:      "User: hello\nAssistant: hi there",
			Timestamp: 1700000000000,
		},
	}

	err := store.Upsert(context.Background(), record, "session-1")
	require.NoError(t, err)

	matches, err := store.Query(context.Background(), vector, 1, "session-1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "User: hello\nAssistant: hi there", matches[0].Metadata.Text)
}

func TestPineconeQueryNamespacesAreIsolated(t *testing.T) {
	fake := newFakePinecone()
	store := newTestStore(t, fake.handler())

	sessionA, err := testutils.GenerateRandomSessionID(16)
	require.NoError(t, err)
	sessionB, err := testutils.GenerateRandomSessionID(16)
	require.NoError(t, err)

	record := &models.MemoryRecord{
		ID:       "msg_a",
		Values:   testutils.FakeVector(8),
		Metadata: models.MemoryMetadata{Text: "secret", Timestamp: 1},
	}
	require.NoError(t, store.Upsert(context.Background(), record, sessionA))

	matches, err := store.Query(context.Background(), testutils.FakeVector(8), 3, sessionB)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPineconeQuerySkipsMatchesWithoutText(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"matches": [
				{"id": "a", "score": 0.9, "metadata": {"text": "", "timestamp": 1}},
				{"id": "b", "score": 0.5, "metadata": {"text": "kept", "timestamp": 2}}
			]
		}`))
	})
	store := newTestStore(t, handler)

	matches, err := store.Query(context.Background(), testutils.FakeVector(8), 3, "global-history")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "kept", matches[0].Metadata.Text)
}

func TestPineconeQueryOrdersByScoreAndCapsTopK(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"matches": [
				{"id": "low", "score": 0.1, "metadata": {"text": "low", "timestamp": 1}},
				{"id": "high", "score": 0.9, "metadata": {"text": "high", "timestamp": 2}},
				{"id": "mid", "score": 0.5, "metadata": {"text": "mid", "timestamp": 3}}
			]
		}`))
	})
	store := newTestStore(t, handler)

	matches, err := store.Query(context.Background(), testutils.FakeVector(8), 2, "global-history")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "high", matches[0].Metadata.Text)
	assert.Equal(t, "mid", matches[1].Metadata.Text)
}

func TestPineconeTransportError(t *testing.T) {
	cfg := testutils.NewTestConfig()
	cfg.MemoryStore.Pinecone.APIKey = "test-key"
	cfg.MemoryStore.Pinecone.Host = "http://127.0.0.1:1"

	store := NewPineconeMemoryStore(cfg)

	_, err := store.Query(context.Background(), testutils.FakeVector(8), 3, "global-history")
	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "pinecone", transportErr.Backend)
}
