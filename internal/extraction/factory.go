package extraction

import (
	"fmt"

	"voxform/internal/config"
	"voxform/internal/port"
)

// ProviderFactory creates a CompletionProvider from the extraction config.
type ProviderFactory func(cfg *config.ExtractionConfig) (port.CompletionProvider, error)

// registry of provider factories, populated by init() in each provider package.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a completion provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates the CompletionProvider named by cfg.Provider.
func NewProvider(cfg *config.ExtractionConfig) (port.CompletionProvider, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown completion provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
