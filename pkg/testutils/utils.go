package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/rxhtt/morrigan/config"
)

// NewTestConfig returns a config with sane in-memory defaults and no
// credentials: every external client starts disabled.
func NewTestConfig() *config.Config {
	return &config.Config{
		LLM: config.LLM{
			OpenAIEndpoint:   "https://api.openai.com/v1",
			DeepSeekEndpoint: "https://api.deepseek.com/v1",
			GroqEndpoint:     "https://api.groq.com/openai/v1",
			GroqModel:        "llama-3.1-70b-versatile",
			Temperature:      0.9,
			TimeoutSeconds:   60,
		},
		Embeddings: config.EmbeddingsConfig{
			Model:          "text-embedding-004",
			Dimensions:     768,
			TimeoutSeconds: 10,
		},
		MemoryStore: config.MemoryStoreConfig{
			Type: "pinecone",
			Pinecone: config.PineconeConfig{
				TopK:             3,
				DefaultNamespace: "global-history",
				TimeoutSeconds:   10,
			},
			MaxContextTokens: 1024,
		},
		Tools: config.ToolsConfig{
			TimeoutSeconds: 10,
		},
		TTS: config.TTSConfig{
			Model:          "gemini-2.5-flash-preview-tts",
			Voice:          "Kore",
			MaxChars:       400,
			SampleRate:     24000,
			TimeoutSeconds: 15,
		},
		Server: config.ServerConfig{Port: 8000},
		Log:    config.LogConfig{Level: "error"},
	}
}

func GenerateRandomSessionID(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random session ID: %w", err)
	}
	return hex.EncodeToString(bytes)[:length], nil
}
