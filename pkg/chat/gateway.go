// Package chat implements the generation gateway: one request/response
// cycle of retrieval, adapter dispatch, optional speech synthesis and
// best-effort memory persistence.
package chat

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkoukk/tiktoken-go"

	"github.com/rxhtt/morrigan/internal"
	"github.com/rxhtt/morrigan/pkg/models"
)

var log = internal.GetLogger()

const (
	RecalledMemoryTag = "[RECALLED_MEMORY]"

	// Stage names recorded on the degraded path.
	StageRetrieval  = "retrieval"
	StageGeneration = "generation"
	StageSynthesis  = "synthesis"
	StageUpsert     = "upsert"
)

// bracketTagPattern matches protocol markers like [SATELLITE_LINK] that
// must not be read aloud.
var bracketTagPattern = regexp.MustCompile(`\[.*?\]`)

// NewGateway creates a gateway over the app state's clients. Any nil
// client disables its stage; the gateway itself is always usable.
func NewGateway(appState *models.AppState) *Gateway {
	// The encoding may need a one-time remote fetch. Token counting is
	// best-effort: without it the context cap falls back to a word count.
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Warnf("tiktoken encoding unavailable, approximating token counts: %v", err)
	}
	return &Gateway{appState: appState, tkm: tkm}
}

// Gateway holds no per-request state: concurrent requests are independent.
type Gateway struct {
	appState *models.AppState
	tkm      *tiktoken.Tiktoken
}

// HandleTurn runs one full generation cycle. Each stage isolates its own
// failures: the result always carries displayable text, and degraded
// stages are recorded rather than propagated.
func (g *Gateway) HandleTurn(ctx context.Context, req *models.ChatRequest) *models.GenerationResult {
	result := &models.GenerationResult{}

	utterance := req.LastUserMessage()
	namespace := g.namespace(req.SessionID)

	contextBlock := g.retrieveContext(ctx, result, utterance, namespace)

	adapter, err := g.appState.Registry.Resolve(req.Model)
	if err != nil {
		var unsupported *models.UnsupportedModelError
		if errors.As(err, &unsupported) {
			result.Text = fmt.Sprintf(
				"Morrigan: Unsupported model '%s'. That weapon isn't in my arsenal.",
				req.Model,
			)
			return result
		}
		// Resolve only fails with UnsupportedModelError today; anything
		// else still must produce a structured response.
		log.Errorf("registry resolve failed: %v", err)
		result.Text = "Morrigan: Internal dispatch failure."
		return result
	}

	systemContext, err := internal.ParsePrompt(systemContextTemplate, systemContextTemplateData{
		Persona: personaPrompt,
		Context: contextBlock,
	})
	if err != nil {
		// The template is a compile-time constant; treat failure as a bug
		// but keep the request alive with the bare persona.
		log.Errorf("system context template failed: %v", err)
		systemContext = personaPrompt
	}

	text, err := adapter.Generate(ctx, req, systemContext)
	if err != nil {
		log.Warnf("%s generation degraded: %v", adapter.Name(), err)
		result.Degraded = append(result.Degraded, models.StageError{Stage: StageGeneration, Err: err})
		text = adapter.Fallback()
	}
	result.Text = text

	// A client-initiated stop aborts the remaining pipeline steps.
	if ctx.Err() != nil {
		return result
	}

	if req.VoiceOutput && text != "" {
		g.synthesize(ctx, result, text)
	}

	if ctx.Err() != nil {
		return result
	}

	if text != "" {
		g.persistExchange(ctx, result, utterance, text, namespace)
	}

	return result
}

func (g *Gateway) namespace(sessionID string) string {
	if sessionID != "" {
		return sessionID
	}
	return g.appState.Config.MemoryStore.Pinecone.DefaultNamespace
}

// retrieveContext embeds the utterance and queries the memory store,
// returning the recalled-context block. Every failure degrades to an
// empty block.
func (g *Gateway) retrieveContext(
	ctx context.Context,
	result *models.GenerationResult,
	utterance, namespace string,
) string {
	if g.appState.MemoryStore == nil || g.appState.Embedder == nil || utterance == "" {
		return ""
	}

	vector, err := g.appState.Embedder.EmbedText(ctx, utterance)
	if err != nil {
		log.Warnf("retrieval embedding degraded: %v", err)
		result.Degraded = append(result.Degraded, models.StageError{Stage: StageRetrieval, Err: err})
		return ""
	}

	topK := g.appState.Config.MemoryStore.Pinecone.TopK
	matches, err := g.appState.MemoryStore.Query(ctx, vector, topK, namespace)
	if err != nil {
		log.Warnf("memory query degraded: %v", err)
		result.Degraded = append(result.Degraded, models.StageError{Stage: StageRetrieval, Err: err})
		return ""
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("%s: %s", RecalledMemoryTag, m.Metadata.Text))
	}

	return g.capContextTokens(lines)
}

// capContextTokens drops the lowest-ranked recalled lines until the block
// fits the configured token budget.
func (g *Gateway) capContextTokens(lines []string) string {
	maxTokens := g.appState.Config.MemoryStore.MaxContextTokens
	for len(lines) > 0 {
		block := strings.Join(lines, "\n")
		if maxTokens <= 0 || g.countTokens(block) <= maxTokens {
			return block
		}
		lines = lines[:len(lines)-1]
	}
	return ""
}

func (g *Gateway) countTokens(text string) int {
	if g.tkm == nil {
		return len(strings.Fields(text))
	}
	return len(g.tkm.Encode(text, nil, nil))
}

func (g *Gateway) synthesize(ctx context.Context, result *models.GenerationResult, text string) {
	if g.appState.Speech == nil {
		return
	}

	speakable := SanitizeForSpeech(text, g.appState.Config.TTS.MaxChars)
	if speakable == "" {
		return
	}

	audio, err := g.appState.Speech.Synthesize(ctx, speakable)
	if err != nil {
		// Swallowed: the text result is still returned, audio is omitted
		log.Warnf("speech synthesis degraded: %v", err)
		result.Degraded = append(result.Degraded, models.StageError{Stage: StageSynthesis, Err: err})
		return
	}
	result.Audio = audio
}

// persistExchange upserts the combined exchange into the session's
// namespace. Best-effort: failure never affects the response.
func (g *Gateway) persistExchange(
	ctx context.Context,
	result *models.GenerationResult,
	utterance, text, namespace string,
) {
	if g.appState.MemoryStore == nil || g.appState.Embedder == nil {
		return
	}

	combined := fmt.Sprintf("User: %s\nAssistant: %s", utterance, text)
	vector, err := g.appState.Embedder.EmbedText(ctx, combined)
	if err != nil {
		log.Warnf("upsert embedding degraded: %v", err)
		result.Degraded = append(result.Degraded, models.StageError{Stage: StageUpsert, Err: err})
		return
	}

	record := &models.MemoryRecord{
		// uuid suffix keeps ids collision-resistant under concurrent
		// requests within the same instant.
		ID:     "msg_" + uuid.New().String(),
		Values: vector,
		Metadata: models.MemoryMetadata{
			Text:      combined,
			Timestamp: time.Now().UnixMilli(),
		},
	}
	if err := g.appState.MemoryStore.Upsert(ctx, record, namespace); err != nil {
		log.Warnf("memory upsert degraded: %v", err)
		result.Degraded = append(result.Degraded, models.StageError{Stage: StageUpsert, Err: err})
	}
}

// SanitizeForSpeech strips bracket-tagged substrings and clips the text to
// maxChars runes before it is handed to the speech synthesizer.
func SanitizeForSpeech(text string, maxChars int) string {
	stripped := bracketTagPattern.ReplaceAllString(text, "")
	stripped = strings.TrimSpace(stripped)

	runes := []rune(stripped)
	if maxChars > 0 && len(runes) > maxChars {
		runes = runes[:maxChars]
	}
	return string(runes)
}
