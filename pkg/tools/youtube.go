// Package tools implements the lookup-and-format provider adapters. They
// call a third-party lookup API and render the raw result into a fixed
// textual template tagged with a protocol marker; no generative model is
// involved.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/llms"
	"github.com/rxhtt/morrigan/pkg/models"
)

const (
	YouTubeEndpoint     = "https://www.googleapis.com/youtube/v3/search"
	YouTubeResultCount  = 5
	YouTubeFallbackText = "Morrigan: YouTube recon uplink failed."
)

var _ models.ProviderAdapter = &YouTubeTool{}

// YouTubeTool searches the YouTube Data API for the last user utterance
// and formats the hits under the [YOUTUBE_RECON_COMPLETE] marker.
type YouTubeTool struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewYouTubeTool(cfg *config.Config) *YouTubeTool {
	timeout := time.Duration(cfg.Tools.TimeoutSeconds) * time.Second
	return &YouTubeTool{
		endpoint: YouTubeEndpoint,
		apiKey:   cfg.Tools.YouTubeAPIKey,
		client:   llms.NewRetryableHTTPClient(0, timeout).StandardClient(),
	}
}

func (t *YouTubeTool) Name() string {
	return "youtube"
}

func (t *YouTubeTool) Fallback() string {
	return YouTubeFallbackText
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

func (t *YouTubeTool) Generate(
	ctx context.Context,
	req *models.ChatRequest,
	_ string,
) (string, error) {
	if t.apiKey == "" {
		return "", models.ErrProviderDisabled
	}

	query := req.LastUserMessage()

	searchURL := fmt.Sprintf(
		"%s?part=snippet&q=%s&maxResults=%d&key=%s",
		t.endpoint, url.QueryEscape(query), YouTubeResultCount, t.apiKey,
	)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", models.NewTransportError(t.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", models.NewTransportError(
			t.Name(), fmt.Errorf("unexpected status %d", resp.StatusCode),
		)
	}

	var data youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", models.ErrMalformedResponse
	}

	lines := make([]string, 0, len(data.Items))
	for _, item := range data.Items {
		lines = append(lines, fmt.Sprintf(
			"- %s (https://youtube.com/watch?v=%s)",
			item.Snippet.Title, item.ID.VideoID,
		))
	}
	results := "No data intercepted."
	if len(lines) > 0 {
		results = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(
		"[YOUTUBE_RECON_COMPLETE]\n\nMorrigan: Scanned the tubes for '%s'.\n\n%s",
		query, results,
	), nil
}
