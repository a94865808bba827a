package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Run       RunConfig       `yaml:"run"`
	Storage   StorageConfig   `yaml:"storage"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type BenchmarkConfig struct {
	Lengths        []int `yaml:"lengths,omitempty"`
	QuizzesPerType int   `yaml:"quizzes_per_type,omitempty"`
	Shuffle        bool  `yaml:"shuffle,omitempty"`
}

type RunConfig struct {
	Threads      int           `yaml:"threads,omitempty"`
	MaxRetries   int           `yaml:"max_retries,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	SystemPrompt string        `yaml:"system_prompt,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// Load reads the yaml config and applies env-var overrides for API keys.
// The default path is allowed to be absent so the tool works with env vars
// alone; an explicitly given path must exist.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != "" && strings.TrimSpace(path) != DefaultPath
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults plus env vars.
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "openrouter"
	}

	applyEnvKey(&cfg, "openrouter", "OPENROUTER_API_KEY")
	applyEnvKey(&cfg, "openai", "OPENAI_API_KEY")
	applyEnvKey(&cfg, "claude", "ANTHROPIC_API_KEY")

	if cfg.Benchmark.QuizzesPerType <= 0 {
		cfg.Benchmark.QuizzesPerType = 10
	}
	if len(cfg.Benchmark.Lengths) == 0 {
		cfg.Benchmark.Lengths = []int{8, 16, 32, 64}
	}
	if cfg.Run.Threads <= 0 {
		cfg.Run.Threads = 8
	}
	if cfg.Run.MaxRetries <= 0 {
		cfg.Run.MaxRetries = 5
	}

	return &cfg, nil
}

func applyEnvKey(cfg *Config, provider string, envVar string) {
	v := strings.TrimSpace(os.Getenv(envVar))
	if v == "" {
		return
	}
	p := cfg.LLM.Providers[provider]
	p.APIKey = v
	cfg.LLM.Providers[provider] = p
}
