package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/llms"
	"github.com/rxhtt/morrigan/pkg/models"
)

const (
	ExaEndpoint     = "https://api.exa.ai/search"
	ExaResultCount  = 5
	ExaFallbackText = "Morrigan: Exa neural uplink failed."
)

var _ models.ProviderAdapter = &ExaTool{}

// ExaTool runs the utterance through Exa's neural web search and formats
// the links under the [EXA_NEURAL_UPLINK] marker.
type ExaTool struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewExaTool(cfg *config.Config) *ExaTool {
	timeout := time.Duration(cfg.Tools.TimeoutSeconds) * time.Second
	return &ExaTool{
		endpoint: ExaEndpoint,
		apiKey:   cfg.Tools.ExaAPIKey,
		client:   llms.NewRetryableHTTPClient(0, timeout).StandardClient(),
	}
}

func (t *ExaTool) Name() string {
	return "exa"
}

func (t *ExaTool) Fallback() string {
	return ExaFallbackText
}

type exaSearchRequest struct {
	Query         string `json:"query"`
	NumResults    int    `json:"numResults"`
	UseAutoprompt bool   `json:"useAutoprompt"`
}

type exaSearchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}

func (t *ExaTool) Generate(
	ctx context.Context,
	req *models.ChatRequest,
	_ string,
) (string, error) {
	if t.apiKey == "" {
		return "", models.ErrProviderDisabled
	}

	body, err := json.Marshal(exaSearchRequest{
		Query:         req.LastUserMessage(),
		NumResults:    ExaResultCount,
		UseAutoprompt: true,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, t.endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", t.apiKey)

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

	var data exaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", models.ErrMalformedResponse
	}

	lines := make([]string, 0, len(data.Results))
	for _, r := range data.Results {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Title, r.URL))
	}
	links := "Neural search returned null."
	if len(lines) > 0 {
		links = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(
		"[EXA_NEURAL_UPLINK]\n\nMorrigan: Deep-crawled the net.\n\n%s",
		links,
	), nil
}
