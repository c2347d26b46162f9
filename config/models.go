package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	LLM         LLM               `mapstructure:"llm"`
	Embeddings  EmbeddingsConfig  `mapstructure:"embeddings"`
	MemoryStore MemoryStoreConfig `mapstructure:"memory_store"`
	Tools       ToolsConfig       `mapstructure:"tools"`
	TTS         TTSConfig         `mapstructure:"tts"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

// LLM holds credentials and endpoints for the generation backends. Every
// key is optional: a missing key disables only that backend's adapter.
type LLM struct {
	// GoogleAPIKey is shared by the Gemini generation, embedding and
	// speech synthesis clients. Loaded from ENV, not the config file.
	GoogleAPIKey string `mapstructure:"google_api_key"`

	OpenAIAPIKey   string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_endpoint"`

	DeepSeekAPIKey   string `mapstructure:"deepseek_api_key"`
	DeepSeekEndpoint string `mapstructure:"deepseek_endpoint"`

	GroqAPIKey   string `mapstructure:"groq_api_key"`
	GroqEndpoint string `mapstructure:"groq_endpoint"`
	// GroqModel is pinned: the Groq adapter always requests this model
	// regardless of the inbound model id.
	GroqModel string `mapstructure:"groq_model"`

	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

type EmbeddingsConfig struct {
	Model          string `mapstructure:"model"`
	Dimensions     int    `mapstructure:"dimensions"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type MemoryStoreConfig struct {
	Type     string         `mapstructure:"type"`
	Pinecone PineconeConfig `mapstructure:"pinecone"`
	// MaxContextTokens caps the recalled-context block prepended to the
	// system instructions.
	MaxContextTokens int `mapstructure:"max_context_tokens"`
}

type PineconeConfig struct {
	// APIKey and Host are loaded from ENV, not the config file. If either
	// is unset the memory store is disabled and retrieval/upsert no-op.
	APIKey           string `mapstructure:"api_key"`
	Host             string `mapstructure:"host"`
	TopK             int    `mapstructure:"top_k"`
	DefaultNamespace string `mapstructure:"default_namespace"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

// ToolsConfig holds keys for the lookup-and-format adapters.
type ToolsConfig struct {
	YouTubeAPIKey  string `mapstructure:"youtube_api_key"`
	WeatherAPIKey  string `mapstructure:"weather_api_key"`
	ExaAPIKey      string `mapstructure:"exa_api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type TTSConfig struct {
	Model string `mapstructure:"model"`
	// Voice is a fixed prebuilt voice profile, not a runtime choice.
	Voice          string `mapstructure:"voice"`
	MaxChars       int    `mapstructure:"max_chars"`
	SampleRate     int    `mapstructure:"sample_rate"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}
