package llms

import (
	"context"
	"encoding/base64"
	"time"

	"google.golang.org/genai"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/models"
)

var _ models.SpeechClient = &GeminiSpeechClient{}

// NewGeminiSpeechClient returns the speech synthesis adapter. The voice
// profile is fixed configuration, not a runtime choice.
func NewGeminiSpeechClient(ctx context.Context, cfg *config.Config) (*GeminiSpeechClient, error) {
	zspeech := &GeminiSpeechClient{cfg: cfg}
	if cfg.LLM.GoogleAPIKey == "" {
		return zspeech, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.LLM.GoogleAPIKey})
	if err != nil {
		return nil, err
	}
	zspeech.client = client

	return zspeech, nil
}

type GeminiSpeechClient struct {
	client *genai.Client
	cfg    *config.Config
}

// Synthesize produces base64-encoded mono 16-bit little-endian PCM at the
// configured sample rate. Any upstream failure is an error the caller must
// swallow; the text result is still returned without audio.
func (zspeech *GeminiSpeechClient) Synthesize(ctx context.Context, text string) (string, error) {
	if zspeech.client == nil {
		return "", models.ErrProviderDisabled
	}

	thisCtx, cancel := context.WithTimeout(
		ctx,
		time.Duration(zspeech.cfg.TTS.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	resp, err := zspeech.client.Models.GenerateContent(
		thisCtx,
		zspeech.cfg.TTS.Model,
		genai.Text(text),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
						VoiceName: zspeech.cfg.TTS.Voice,
					},
				},
			},
		},
	)
	if err != nil {
		return "", models.NewTransportError("tts", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", models.ErrMalformedResponse
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(part.InlineData.Data), nil
		}
	}

	return "", models.ErrMalformedResponse
}
