package llms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/models"
)

func testChatRequest(model string) *models.ChatRequest {
	return &models.ChatRequest{
		Messages: []models.Message{{Role: models.RoleUser, Content: "hello"}},
		Model:    model,
	}
}

func TestOpenAICompatibleLLM_Disabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.TimeoutSeconds = 5

	zllm, err := NewOpenAILLM(cfg)
	require.NoError(t, err)

	_, err = zllm.Generate(context.Background(), testChatRequest("gpt-4o"), "persona")
	assert.True(t, errors.Is(err, models.ErrProviderDisabled))
}

func TestOpenAICompatibleLLM_Generate(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gpt-4o", body["model"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"choices": [{"message": {"role": "assistant", "content": "hi there"}}]
			}`))
		}),
	)
	defer server.Close()

	cfg := &config.Config{}
	cfg.LLM.OpenAIAPIKey = "test-key"
	cfg.LLM.OpenAIEndpoint = server.URL
	cfg.LLM.TimeoutSeconds = 5

	zllm, err := NewOpenAILLM(cfg)
	require.NoError(t, err)

	text, err := zllm.Generate(context.Background(), testChatRequest("gpt-4o"), "persona")
	assert.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestOpenAICompatibleLLM_TransportErrorTagged(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadRequest)
		}),
	)
	defer server.Close()

	cfg := &config.Config{}
	cfg.LLM.GroqAPIKey = "test-key"
	cfg.LLM.GroqEndpoint = server.URL
	cfg.LLM.GroqModel = "llama-3.1-70b-versatile"
	cfg.LLM.TimeoutSeconds = 5

	zllm, err := NewGroqLLM(cfg)
	require.NoError(t, err)

	_, err = zllm.Generate(context.Background(), testChatRequest("llama-3.1-70b-versatile"), "persona")
	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "groq", transportErr.Backend)
}

func TestGroqLLM_PinnedModel(t *testing.T) {
	var requestedModel string
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			requestedModel, _ = body["model"].(string)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"choices": [{"message": {"role": "assistant", "content": "ok"}}]
			}`))
		}),
	)
	defer server.Close()

	cfg := &config.Config{}
	cfg.LLM.GroqAPIKey = "test-key"
	cfg.LLM.GroqEndpoint = server.URL
	cfg.LLM.GroqModel = "llama-3.1-70b-versatile"
	cfg.LLM.TimeoutSeconds = 5

	zllm, err := NewGroqLLM(cfg)
	require.NoError(t, err)

	// The inbound id names the family; the adapter pins the exact model.
	_, err = zllm.Generate(context.Background(), testChatRequest("llama-guard"), "persona")
	assert.NoError(t, err)
	assert.Equal(t, "llama-3.1-70b-versatile", requestedModel)
}
