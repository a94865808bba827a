package llm

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stellarlinkco/lineage-bench/internal/config"
)

// NewRegistryFromConfig constructs every configured provider and registers
// it under its canonical name.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	r := NewRegistry()
	for name, pcfg := range cfg.LLM.Providers {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		p, err := newProvider(key, pcfg)
		if err != nil {
			return nil, err
		}
		r.Register(p)
	}

	return r, nil
}

// ProviderFromConfig resolves a provider by name through the configured
// registry, falling back to the configured default when name is empty.
// Model, when set, overrides the configured model for that provider.
// Built-in providers resolve even without a config entry so that env-var
// API keys alone are enough.
func ProviderFromConfig(cfg *config.Config, name string, model string) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = strings.ToLower(strings.TrimSpace(cfg.LLM.DefaultProvider))
	}
	if key == "anthropic" {
		key = "claude"
	}
	if key == "" {
		return nil, errors.New("llm: missing provider")
	}

	reg, err := NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	p, ok := reg.Get(key)
	if !ok {
		p, err = newProvider(key, providerConfig(cfg, key))
		if err != nil {
			available := reg.Names()
			sort.Strings(available)
			return nil, fmt.Errorf("llm: unsupported provider %q (available: %s)", key, strings.Join(available, ", "))
		}
	}

	if m := strings.TrimSpace(model); m != "" {
		pcfg := providerConfig(cfg, key)
		pcfg.Model = m
		return newProvider(key, pcfg)
	}

	return p, nil
}

func newProvider(key string, pcfg config.ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "openrouter":
		return NewOpenRouterProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model), nil
	case "openai":
		return NewOpenAIProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model), nil
	case "claude", "anthropic":
		return NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", key)
	}
}

// providerConfig looks up the config entry for a canonical provider key,
// accepting the anthropic alias for claude.
func providerConfig(cfg *config.Config, key string) config.ProviderConfig {
	if pcfg, ok := cfg.LLM.Providers[key]; ok {
		return pcfg
	}
	if key == "claude" {
		return cfg.LLM.Providers["anthropic"]
	}
	return config.ProviderConfig{}
}
