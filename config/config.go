package config

import (
	"errors"
	"strings"

	"github.com/rxhtt/morrigan/internal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

// envBindings maps config keys to the upstream-conventional environment
// variable names. Secrets are only ever loaded from ENV, never from the
// config file.
var envBindings = map[string][]string{
	"llm.google_api_key":           {"MORRIGAN_GOOGLE_API_KEY", "API_KEY"},
	"llm.openai_api_key":           {"MORRIGAN_OPENAI_API_KEY", "OPENAI_API_KEY"},
	"llm.deepseek_api_key":         {"MORRIGAN_DEEPSEEK_API_KEY", "DEEPSEEK_API_KEY"},
	"llm.groq_api_key":             {"MORRIGAN_GROQ_API_KEY", "GROQ_API_KEY"},
	"tools.youtube_api_key":        {"MORRIGAN_YOUTUBE_API_KEY", "YOUTUBE_API_KEY"},
	"tools.weather_api_key":        {"MORRIGAN_WEATHER_API_KEY", "WEATHER_API_KEY"},
	"tools.exa_api_key":            {"MORRIGAN_EXA_API_KEY", "EXA_API_KEY"},
	"memory_store.pinecone.api_key": {"MORRIGAN_PINECONE_API_KEY", "PINECONE_API_KEY"},
	"memory_store.pinecone.host":    {"MORRIGAN_PINECONE_HOST", "PINECONE_HOST"},
}

// defaults for everything that must work without a config file. Every
// credential is independently optional; absence disables only the
// dependent adapter.
var defaults = map[string]any{
	"llm.openai_endpoint":                  "https://api.openai.com/v1",
	"llm.deepseek_endpoint":                "https://api.deepseek.com/v1",
	"llm.groq_endpoint":                    "https://api.groq.com/openai/v1",
	"llm.groq_model":                       "llama-3.1-70b-versatile",
	"llm.temperature":                      0.9,
	"llm.timeout_seconds":                  60,
	"embeddings.model":                     "text-embedding-004",
	"embeddings.dimensions":                768,
	"embeddings.timeout_seconds":           10,
	"memory_store.type":                    "pinecone",
	"memory_store.pinecone.top_k":          3,
	"memory_store.pinecone.default_namespace": "global-history",
	"memory_store.pinecone.timeout_seconds":   10,
	"memory_store.max_context_tokens":         1024,
	"tools.timeout_seconds":                10,
	"tts.model":                            "gemini-2.5-flash-preview-tts",
	"tts.voice":                            "Kore",
	"tts.max_chars":                        400,
	"tts.sample_rate":                      24000,
	"tts.timeout_seconds":                  15,
	"server.port":                          8000,
	"log.level":                            "info",
}

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("MORRIGAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		// The gateway runs fine on defaults and ENV alone
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Warn("no config file found; using defaults and ENV")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	for key, envVars := range envBindings {
		if err := viper.BindEnv(append([]string{key}, envVars...)...); err != nil {
			log.Fatalf("Error binding environment variable: %s", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}
