package llms

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/models"
)

const (
	OpenAIFallbackText   = "Morrigan: External uplink failed."
	DeepSeekFallbackText = "Morrigan: External uplink failed."
	GroqFallbackText     = "Morrigan: Groq uplink timed out."
)

var _ models.ProviderAdapter = &OpenAICompatibleLLM{}

// OpenAICompatibleLLM serves every backend speaking the OpenAI chat
// completion shape. It is parameterized by endpoint URL and credential and
// instantiated once per backend family.
type OpenAICompatibleLLM struct {
	name     string
	fallback string
	// pinnedModel, when set, overrides the inbound model id.
	pinnedModel string
	llm         *openai.Chat
	cfg         *config.Config
}

// NewOpenAILLM returns the adapter for api.openai.com.
func NewOpenAILLM(cfg *config.Config) (*OpenAICompatibleLLM, error) {
	return newOpenAICompatibleLLM(
		cfg,
		"openai",
		OpenAIFallbackText,
		cfg.LLM.OpenAIEndpoint,
		cfg.LLM.OpenAIAPIKey,
		"",
	)
}

// NewDeepSeekLLM returns the adapter for api.deepseek.com. DeepSeek shares
// the OpenAI request/response shape.
func NewDeepSeekLLM(cfg *config.Config) (*OpenAICompatibleLLM, error) {
	return newOpenAICompatibleLLM(
		cfg,
		"deepseek",
		DeepSeekFallbackText,
		cfg.LLM.DeepSeekEndpoint,
		cfg.LLM.DeepSeekAPIKey,
		"",
	)
}

// NewGroqLLM returns the adapter for api.groq.com. The served model is
// pinned in configuration rather than taken from the request.
func NewGroqLLM(cfg *config.Config) (*OpenAICompatibleLLM, error) {
	return newOpenAICompatibleLLM(
		cfg,
		"groq",
		GroqFallbackText,
		cfg.LLM.GroqEndpoint,
		cfg.LLM.GroqAPIKey,
		cfg.LLM.GroqModel,
	)
}

func newOpenAICompatibleLLM(
	cfg *config.Config,
	name, fallback, endpoint, apiKey, pinnedModel string,
) (*OpenAICompatibleLLM, error) {
	zllm := &OpenAICompatibleLLM{
		name:        name,
		fallback:    fallback,
		pinnedModel: pinnedModel,
		cfg:         cfg,
	}
	if apiKey == "" {
		// Disabled adapter. Generate degrades to the fallback string.
		return zllm, nil
	}

	// A single attempt bounds interactive latency; a hung backend is cut
	// off by the client timeout.
	retryableHTTPClient := NewRetryableHTTPClient(
		0,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second,
	)

	llm, err := openai.NewChat(
		openai.WithHTTPClient(retryableHTTPClient.StandardClient()),
		openai.WithToken(apiKey),
		openai.WithBaseURL(endpoint),
	)
	if err != nil {
		return nil, err
	}
	zllm.llm = llm

	return zllm, nil
}

func (zllm *OpenAICompatibleLLM) Name() string {
	return zllm.name
}

func (zllm *OpenAICompatibleLLM) Fallback() string {
	return zllm.fallback
}

func (zllm *OpenAICompatibleLLM) Generate(
	ctx context.Context,
	req *models.ChatRequest,
	systemContext string,
) (string, error) {
	if zllm.llm == nil {
		return "", models.ErrProviderDisabled
	}

	thisCtx, cancel := context.WithTimeout(
		ctx,
		time.Duration(zllm.cfg.LLM.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	model := req.Model
	if zllm.pinnedModel != "" {
		model = zllm.pinnedModel
	}

	messages := make([]schema.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, schema.SystemChatMessage{Content: systemContext})
	for _, m := range req.Messages {
		if m.Role == models.RoleAssistant {
			messages = append(messages, schema.AIChatMessage{Content: m.Content})
			continue
		}
		messages = append(messages, schema.HumanChatMessage{Content: m.Content})
	}

	completion, err := zllm.llm.Call(
		thisCtx,
		messages,
		llms.WithModel(model),
		llms.WithTemperature(effectiveTemperature(zllm.cfg.LLM.Temperature)),
	)
	if err != nil {
		return "", models.NewTransportError(zllm.name, err)
	}

	return completion.GetContent(), nil
}
