package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxhtt/morrigan/pkg/models"
	"github.com/rxhtt/morrigan/pkg/testutils"
)

func toolRequest(model, content string) *models.ChatRequest {
	return &models.ChatRequest{
		Messages: []models.Message{{Role: models.RoleUser, Content: content}},
		Model:    model,
	}
}

func TestYouTubeTool_DisabledWithoutKey(t *testing.T) {
	tool := NewYouTubeTool(testutils.NewTestConfig())

	_, err := tool.Generate(context.Background(), toolRequest("youtube-recon-v3", "cats"), "")
	assert.True(t, errors.Is(err, models.ErrProviderDisabled))
}

func TestYouTubeTool_FormatsResults(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "snippet", r.URL.Query().Get("part"))
			assert.Equal(t, "lockpicking", r.URL.Query().Get("q"))

			_ = json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"id":      map[string]any{"videoId": "abc123"},
						"snippet": map[string]any{"title": "Lockpicking 101"},
					},
				},
			})
		}),
	)
	defer server.Close()

	cfg := testutils.NewTestConfig()
	cfg.Tools.YouTubeAPIKey = "test-key"
	tool := NewYouTubeTool(cfg)
	tool.endpoint = server.URL

	text, err := tool.Generate(context.Background(), toolRequest("youtube-recon-v3", "lockpicking"), "")
	require.NoError(t, err)
	assert.Contains(t, text, "[YOUTUBE_RECON_COMPLETE]")
	assert.Contains(t, text, "- Lockpicking 101 (https://youtube.com/watch?v=abc123)")
}

func TestYouTubeTool_EmptyResults(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"items": []}`))
		}),
	)
	defer server.Close()

	cfg := testutils.NewTestConfig()
	cfg.Tools.YouTubeAPIKey = "test-key"
	tool := NewYouTubeTool(cfg)
	tool.endpoint = server.URL

	text, err := tool.Generate(context.Background(), toolRequest("youtube-recon-v3", "x"), "")
	require.NoError(t, err)
	assert.Contains(t, text, "No data intercepted.")
}

func TestWeatherTool_PrefersLocationOverUtterance(t *testing.T) {
	var query string
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			_ = json.NewEncoder(w).Encode(map[string]any{
				"cod":     200,
				"name":    "Dublin",
				"weather": []map[string]any{{"description": "light rain"}},
				"main":    map[string]any{"temp": 11.5},
			})
		}),
	)
	defer server.Close()

	cfg := testutils.NewTestConfig()
	cfg.Tools.WeatherAPIKey = "test-key"
	tool := NewWeatherTool(cfg)
	tool.endpoint = server.URL

	req := toolRequest("weather-satellite-v1", "what's the weather")
	req.Location = &models.GeoPoint{Latitude: 53.35, Longitude: -6.26}

	text, err := tool.Generate(context.Background(), req, "")
	require.NoError(t, err)
	assert.Contains(t, query, "lat=53.35")
	assert.Contains(t, query, "lon=-6.26")
	assert.Contains(t, text, "[SATELLITE_LINK]")
	assert.Contains(t, text, "Dublin")
	assert.Contains(t, text, "light rain, 11.5°C")
}

func TestWeatherTool_UpstreamFailureIsInBand(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
		}),
	)
	defer server.Close()

	cfg := testutils.NewTestConfig()
	cfg.Tools.WeatherAPIKey = "test-key"
	tool := NewWeatherTool(cfg)
	tool.endpoint = server.URL

	text, err := tool.Generate(context.Background(), toolRequest("weather-satellite-v1", "atlantis"), "")
	require.NoError(t, err)
	assert.Equal(t, "Morrigan: Weather link failed. city not found.", text)
}

func TestExaTool_FormatsLinks(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

			var body exaSearchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 5, body.NumResults)
			assert.True(t, body.UseAutoprompt)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{
					{"title": "Zero days", "url": "https://example.com/zd"},
				},
			})
		}),
	)
	defer server.Close()

	cfg := testutils.NewTestConfig()
	cfg.Tools.ExaAPIKey = "test-key"
	tool := NewExaTool(cfg)
	tool.endpoint = server.URL

	text, err := tool.Generate(context.Background(), toolRequest("exa-osint-neural", "zero days"), "")
	require.NoError(t, err)
	assert.Contains(t, text, "[EXA_NEURAL_UPLINK]")
	assert.Contains(t, text, "- Zero days: https://example.com/zd")
}

func TestExaTool_TransportError(t *testing.T) {
	cfg := testutils.NewTestConfig()
	cfg.Tools.ExaAPIKey = "test-key"
	tool := NewExaTool(cfg)
	tool.endpoint = "http://127.0.0.1:1"

	_, err := tool.Generate(context.Background(), toolRequest("exa-osint-neural", "x"), "")
	var transportErr *models.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "exa", transportErr.Backend)
}
