package models

import (
	"github.com/rxhtt/morrigan/config"
)

// AppState is a struct that holds the shared, read-only state of the
// application. Use cmd.NewAppState to create a new instance. Any of the
// clients may be nil when its credential is absent; consumers must treat
// nil as "feature disabled".
type AppState struct {
	Registry    AdapterRegistry
	MemoryStore MemoryStore
	Embedder    Embedder
	Speech      SpeechClient
	Config      *config.Config
}

// AdapterRegistry resolves a model id to a ProviderAdapter.
type AdapterRegistry interface {
	Resolve(model string) (ProviderAdapter, error)
}
