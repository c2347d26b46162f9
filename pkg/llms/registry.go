package llms

import (
	"strings"

	"github.com/rxhtt/morrigan/pkg/models"
)

var _ models.AdapterRegistry = &Registry{}

// RegistryEntry pairs a model id predicate with the adapter that serves it.
type RegistryEntry struct {
	Match   func(model string) bool
	Adapter models.ProviderAdapter
}

// Registry is an ordered dispatch table over provider adapters. Entries are
// evaluated in registration order and the first match wins. The table is
// built once at startup and read-only afterwards, so it is safe for
// concurrent use.
type Registry struct {
	entries []RegistryEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an entry to the dispatch table. New backends are
// registered, not branched.
func (r *Registry) Register(match func(model string) bool, adapter models.ProviderAdapter) {
	r.entries = append(r.entries, RegistryEntry{Match: match, Adapter: adapter})
}

// Resolve returns the first adapter whose predicate matches the model id.
func (r *Registry) Resolve(model string) (models.ProviderAdapter, error) {
	for _, entry := range r.entries {
		if entry.Match(model) {
			return entry.Adapter, nil
		}
	}
	return nil, models.NewUnsupportedModelError(model)
}

// MatchExact matches a single model id.
func MatchExact(id string) func(model string) bool {
	return func(model string) bool {
		return model == id
	}
}

// MatchSubstring matches any model id containing one of the given fragments.
func MatchSubstring(fragments ...string) func(model string) bool {
	return func(model string) bool {
		for _, fragment := range fragments {
			if strings.Contains(model, fragment) {
				return true
			}
		}
		return false
	}
}
