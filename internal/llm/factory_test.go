package llm

import (
	"strings"
	"testing"

	"github.com/stellarlinkco/lineage-bench/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "openrouter",
			Providers: map[string]config.ProviderConfig{
				"openrouter": {APIKey: "or-key", Model: "some/model"},
				"openai":     {APIKey: "oa-key"},
				"claude":     {APIKey: "an-key"},
			},
		},
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	r, err := NewRegistryFromConfig(testConfig())
	if err != nil {
		t.Fatalf("NewRegistryFromConfig: %v", err)
	}

	for _, name := range []string{"openrouter", "openai", "claude"} {
		if _, ok := r.Get(name); !ok {
			t.Fatalf("provider %q not registered", name)
		}
	}
}

func TestNewRegistryFromConfig_UnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Providers["mystery"] = config.ProviderConfig{APIKey: "k"}

	_, err := NewRegistryFromConfig(cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("error: got %q", err)
	}
}

func TestNewRegistryFromConfig_NilConfig(t *testing.T) {
	if _, err := NewRegistryFromConfig(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestProviderFromConfig_Default(t *testing.T) {
	p, err := ProviderFromConfig(testConfig(), "", "")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	if p.Name() != "openrouter" {
		t.Fatalf("Name: got %q want %q", p.Name(), "openrouter")
	}
}

func TestProviderFromConfig_ExplicitName(t *testing.T) {
	p, err := ProviderFromConfig(testConfig(), " OpenAI ", "")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("Name: got %q want %q", p.Name(), "openai")
	}
}

func TestProviderFromConfig_AnthropicAlias(t *testing.T) {
	p, err := ProviderFromConfig(testConfig(), "anthropic", "")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("Name: got %q want %q", p.Name(), "claude")
	}
}

func TestProviderFromConfig_ModelOverride(t *testing.T) {
	p, err := ProviderFromConfig(testConfig(), "openrouter", "another/model")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	op, ok := p.(*OpenAIProvider)
	if !ok {
		t.Fatalf("provider type: got %T", p)
	}
	if op.model != "another/model" {
		t.Fatalf("model: got %q want %q", op.model, "another/model")
	}
}

func TestProviderFromConfig_BadConfiguredProvider(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Providers["mystery"] = config.ProviderConfig{APIKey: "k"}

	// Resolution goes through the registry, so a bad config entry fails
	// even when a valid provider is requested.
	_, err := ProviderFromConfig(cfg, "openai", "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("error: got %q", err)
	}
}

func TestProviderFromConfig_UnconfiguredBuiltin(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{Providers: map[string]config.ProviderConfig{}},
	}

	p, err := ProviderFromConfig(cfg, "openai", "")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("Name: got %q want %q", p.Name(), "openai")
	}
}

func TestProviderFromConfig_AnthropicConfigEntry(t *testing.T) {
	cfg := &config.Config{
		LLM: config.LLMConfig{
			Providers: map[string]config.ProviderConfig{
				"anthropic": {APIKey: "an-key", Model: "claude-x"},
			},
		},
	}

	p, err := ProviderFromConfig(cfg, "claude", "")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	cp, ok := p.(*ClaudeProvider)
	if !ok {
		t.Fatalf("provider type: got %T", p)
	}
	if cp.model != "claude-x" {
		t.Fatalf("model: got %q want %q", cp.model, "claude-x")
	}

	p, err = ProviderFromConfig(cfg, "claude", "claude-y")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	if cp := p.(*ClaudeProvider); cp.model != "claude-y" {
		t.Fatalf("override model: got %q want %q", cp.model, "claude-y")
	}
}

func TestProviderFromConfig_Errors(t *testing.T) {
	if _, err := ProviderFromConfig(nil, "openrouter", ""); err == nil {
		t.Fatalf("nil config: expected error")
	}

	cfg := testConfig()
	cfg.LLM.DefaultProvider = ""
	if _, err := ProviderFromConfig(cfg, "", ""); err == nil {
		t.Fatalf("missing provider: expected error")
	}

	_, err := ProviderFromConfig(testConfig(), "mystery", "")
	if err == nil {
		t.Fatalf("unsupported provider: expected error")
	}
	if !strings.Contains(err.Error(), "unsupported provider") {
		t.Fatalf("error: got %q", err)
	}
}
