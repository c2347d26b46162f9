package llms

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/models"
)

const GeminiFallbackText = "Morrigan: Search-grounded uplink failed."

var _ models.ProviderAdapter = &GeminiLLM{}

// NewGeminiLLM returns the search-grounded generation adapter. When the
// Google API key is absent the adapter is created disabled: Generate
// returns ErrProviderDisabled and the gateway degrades to the fallback
// string.
func NewGeminiLLM(ctx context.Context, cfg *config.Config) (*GeminiLLM, error) {
	zllm := &GeminiLLM{cfg: cfg}
	if cfg.LLM.GoogleAPIKey == "" {
		return zllm, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.LLM.GoogleAPIKey})
	if err != nil {
		return nil, err
	}
	zllm.client = client

	return zllm, nil
}

// GeminiLLM generates text with a web-search tool enabled and supports
// multi-modal input: the last turn may carry an inlined media blob.
type GeminiLLM struct {
	client *genai.Client
	cfg    *config.Config
}

func (zllm *GeminiLLM) Name() string {
	return "gemini"
}

func (zllm *GeminiLLM) Fallback() string {
	return GeminiFallbackText
}

func (zllm *GeminiLLM) Generate(
	ctx context.Context,
	req *models.ChatRequest,
	systemContext string,
) (string, error) {
	if zllm.client == nil {
		return "", models.ErrProviderDisabled
	}

	thisCtx, cancel := context.WithTimeout(
		ctx,
		time.Duration(zllm.cfg.LLM.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	generateCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemContext}},
		},
		Temperature: genai.Ptr(float32(effectiveTemperature(zllm.cfg.LLM.Temperature))),
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := zllm.client.Models.GenerateContent(
		thisCtx,
		req.Model,
		zllm.buildContents(req),
		generateCfg,
	)
	if err != nil {
		return "", models.NewTransportError(zllm.Name(), err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", models.ErrMalformedResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	return sb.String(), nil
}

// buildContents maps the uniform turn model to the Gemini wire format.
// Only the final turn may carry the media attachment.
func (zllm *GeminiLLM) buildContents(req *models.ChatRequest) []*genai.Content {
	contents := make([]*genai.Content, len(req.Messages))
	for i, m := range req.Messages {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}

		parts := []*genai.Part{{Text: m.Content}}
		if i == len(req.Messages)-1 && req.FileData != nil {
			data, err := decodeMediaBase64(req.FileData.Base64)
			if err != nil {
				log.Warnf("dropping malformed media payload: %v", err)
			} else {
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{
						MIMEType: req.FileData.MimeType,
						Data:     data,
					},
				})
			}
		}

		contents[i] = &genai.Content{Role: role, Parts: parts}
	}
	return contents
}

// decodeMediaBase64 decodes an attachment, stripping the data-URL prefix
// browser clients prepend.
func decodeMediaBase64(b64 string) ([]byte, error) {
	if idx := strings.IndexByte(b64, ','); idx >= 0 {
		b64 = b64[idx+1:]
	}
	return base64.StdEncoding.DecodeString(b64)
}
