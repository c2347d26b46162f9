package llms

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/models"
)

var _ models.Embedder = &GeminiEmbeddingsClient{}

// NewGeminiEmbeddingsClient returns the text embedding client. A missing
// Google API key yields a disabled client: EmbedText fails softly and the
// gateway skips retrieval and upsert for the request.
func NewGeminiEmbeddingsClient(ctx context.Context, cfg *config.Config) (*GeminiEmbeddingsClient, error) {
	zembeddings := &GeminiEmbeddingsClient{cfg: cfg}
	if cfg.LLM.GoogleAPIKey == "" {
		return zembeddings, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.LLM.GoogleAPIKey})
	if err != nil {
		return nil, err
	}
	zembeddings.client = client

	return zembeddings, nil
}

type GeminiEmbeddingsClient struct {
	client *genai.Client
	cfg    *config.Config
}

// Dimensions returns the fixed output dimension of the embedding model.
func (zembeddings *GeminiEmbeddingsClient) Dimensions() int {
	return zembeddings.cfg.Embeddings.Dimensions
}

// EmbedText maps text to a fixed-dimension vector. Failure is non-fatal
// for the overall request: callers log it and skip the dependent stage.
func (zembeddings *GeminiEmbeddingsClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if zembeddings.client == nil {
		return nil, models.ErrProviderDisabled
	}

	thisCtx, cancel := context.WithTimeout(
		ctx,
		time.Duration(zembeddings.cfg.Embeddings.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	resp, err := zembeddings.client.Models.EmbedContent(
		thisCtx,
		zembeddings.cfg.Embeddings.Model,
		genai.Text(text),
		nil,
	)
	if err != nil {
		return nil, models.NewTransportError("embeddings", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, models.ErrMalformedResponse
	}

	vector := resp.Embeddings[0].Values
	if len(vector) != zembeddings.Dimensions() {
		return nil, fmt.Errorf(
			"%w: embedding dimension %d, want %d",
			models.ErrMalformedResponse, len(vector), zembeddings.Dimensions(),
		)
	}

	return vector, nil
}
