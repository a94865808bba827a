package llm

import (
	"context"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	p := NewOpenAIProvider("key", "", "")
	if p.Name() != "openai" {
		t.Fatalf("Name: got %q want %q", p.Name(), "openai")
	}
	if p.model != "gpt-4o" {
		t.Fatalf("model: got %q want %q", p.model, "gpt-4o")
	}
}

func TestNewOpenRouterProvider_Defaults(t *testing.T) {
	p := NewOpenRouterProvider("key", "", "")
	if p.Name() != "openrouter" {
		t.Fatalf("Name: got %q want %q", p.Name(), "openrouter")
	}
	if p.model != "openrouter/auto" {
		t.Fatalf("model: got %q want %q", p.model, "openrouter/auto")
	}
}

func TestOpenAIProvider_NilChecks(t *testing.T) {
	var p *OpenAIProvider
	if p.Name() != "" {
		t.Fatalf("Name on nil provider: got %q", p.Name())
	}
	if _, err := p.Complete(context.Background(), &Request{}); err == nil {
		t.Fatalf("nil provider: expected error")
	}

	p = NewOpenAIProvider("key", "", "")
	var nilCtx context.Context
	if _, err := p.Complete(nilCtx, &Request{}); err == nil {
		t.Fatalf("nil context: expected error")
	}
	if _, err := p.Complete(context.Background(), nil); err == nil {
		t.Fatalf("nil request: expected error")
	}
}

func TestNormalizeOpenAIRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"user", openai.ChatMessageRoleUser},
		{" Assistant ", openai.ChatMessageRoleAssistant},
		{"SYSTEM", openai.ChatMessageRoleSystem},
		{"tool", openai.ChatMessageRoleUser},
		{"", openai.ChatMessageRoleUser},
	}
	for _, tc := range cases {
		if got := normalizeOpenAIRole(tc.in); got != tc.want {
			t.Fatalf("normalizeOpenAIRole(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestClampMaxTokens(t *testing.T) {
	if got := clampMaxTokens(-5); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
	if got := clampMaxTokens(0); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
	if got := clampMaxTokens(16384); got != 16384 {
		t.Fatalf("got %d want 16384", got)
	}
}
