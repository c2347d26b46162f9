package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxhtt/morrigan/config"
	"github.com/rxhtt/morrigan/pkg/llms"
	"github.com/rxhtt/morrigan/pkg/memorystore"
	"github.com/rxhtt/morrigan/pkg/models"
	"github.com/rxhtt/morrigan/pkg/server"
	"github.com/rxhtt/morrigan/pkg/tools"
)

const serverShutdownTimeout = 10 * time.Second

// run is the entrypoint for the morrigan gateway server
func run() {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatalf("Error configuring morrigan: %s", err)
	}

	handleCLIOptions(cfg)

	log.Infof("Starting morrigan gateway version %s", config.VersionString)

	config.SetLogLevel(cfg)
	appState := NewAppState(cfg)

	srv := server.Create(appState)
	setupSignalHandler(srv)

	log.Infof("Listening on: %s", srv.Addr)
	err = srv.ListenAndServe()
	if err != nil {
		log.Fatal(err)
	}
}

// NewAppState creates an AppState struct from the config file / ENV,
// builds the adapter registry, and initializes the memory store. Every
// client with a missing credential comes up disabled rather than failing.
func NewAppState(cfg *config.Config) *models.AppState {
	ctx := context.Background()

	geminiLLM, err := llms.NewGeminiLLM(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create gemini client: %s", err)
	}
	openAILLM, err := llms.NewOpenAILLM(cfg)
	if err != nil {
		log.Fatalf("Failed to create openai client: %s", err)
	}
	deepSeekLLM, err := llms.NewDeepSeekLLM(cfg)
	if err != nil {
		log.Fatalf("Failed to create deepseek client: %s", err)
	}
	groqLLM, err := llms.NewGroqLLM(cfg)
	if err != nil {
		log.Fatalf("Failed to create groq client: %s", err)
	}
	embedder, err := llms.NewGeminiEmbeddingsClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create embeddings client: %s", err)
	}
	speech, err := llms.NewGeminiSpeechClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create speech client: %s", err)
	}

	// Dispatch order matters: tool ids are exact matches evaluated before
	// the substring families.
	registry := llms.NewRegistry()
	registry.Register(llms.MatchExact("youtube-recon-v3"), tools.NewYouTubeTool(cfg))
	registry.Register(llms.MatchExact("weather-satellite-v1"), tools.NewWeatherTool(cfg))
	registry.Register(llms.MatchExact("exa-osint-neural"), tools.NewExaTool(cfg))
	registry.Register(llms.MatchSubstring("llama"), groqLLM)
	registry.Register(llms.MatchSubstring("gemini"), geminiLLM)
	registry.Register(llms.MatchSubstring("gpt"), openAILLM)
	registry.Register(llms.MatchSubstring("deepseek"), deepSeekLLM)

	appState := &models.AppState{
		Registry: registry,
		Embedder: embedder,
		Speech:   speech,
		Config:   cfg,
	}

	initializeMemoryStore(appState)

	return appState
}

// handleCLIOptions handles CLI options that don't require the server to run
func handleCLIOptions(cfg *config.Config) {
	if showVersion {
		fmt.Println(config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		fmt.Printf("%+v\n", cfg)
		os.Exit(0)
	}
}

// initializeMemoryStore wires the vector store when it is configured.
// An unconfigured store leaves AppState.MemoryStore nil: the gateway
// skips retrieval and upsert without network calls.
func initializeMemoryStore(appState *models.AppState) {
	cfg := appState.Config
	if cfg.MemoryStore.Type != "pinecone" {
		log.Warnf("memory_store.type (%s) is not supported; memory disabled", cfg.MemoryStore.Type)
		return
	}
	if cfg.MemoryStore.Pinecone.APIKey == "" || cfg.MemoryStore.Pinecone.Host == "" {
		log.Info("pinecone key or host not set; memory disabled")
		return
	}

	appState.MemoryStore = memorystore.NewPineconeMemoryStore(cfg)
	log.Info("Using memory store: ", cfg.MemoryStore.Type)
}

func setupSignalHandler(srv interface {
	Shutdown(ctx context.Context) error
}) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("server shutdown failed: %v", err)
		}
	}()
}
