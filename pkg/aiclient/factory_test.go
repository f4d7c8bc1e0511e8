package aiclient

import (
	"testing"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

func TestFactoryUnknownProvider(t *testing.T) {
	_, err := New(config.AIConfig{Provider: "claude"}, logger.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !IsConfigurationError(err) {
		t.Errorf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestFactoryDefaultsToDeepseek(t *testing.T) {
	c, err := New(config.AIConfig{DeepseekAPIKey: "k"}, logger.NewNop())
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if c.Provider() != "deepseek" {
		t.Errorf("expected deepseek fallback, got %s", c.Provider())
	}
}

func TestFactoryMissingKeyIsFatal(t *testing.T) {
	// A missing key must fail exactly once at construction, with no
	// retry loop and no backoff delay.
	for _, provider := range []string{"deepseek", "openai", "gemini"} {
		_, err := New(config.AIConfig{Provider: provider}, logger.NewNop())
		if !IsConfigurationError(err) {
			t.Errorf("%s: expected ConfigurationError, got %v", provider, err)
		}
	}
}

func TestFactorySelectsOpenAI(t *testing.T) {
	c, err := New(config.AIConfig{Provider: "openai", OpenAIAPIKey: "k"}, logger.NewNop())
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if c.Provider() != "openai" {
		t.Errorf("expected openai, got %s", c.Provider())
	}
	if c.Dim() != DefaultDim {
		t.Errorf("expected dim %d, got %d", DefaultDim, c.Dim())
	}
}

func TestCompletionOptionsNormalized(t *testing.T) {
	tests := []struct {
		name     string
		in       CompletionOptions
		wantTemp float64
		wantMax  int
	}{
		{"zero values", CompletionOptions{}, 0.7, 500},
		{"out of range temperature", CompletionOptions{Temperature: 1.5, MaxTokens: 100}, 0.7, 100},
		{"negative max tokens", CompletionOptions{Temperature: 0.2, MaxTokens: -1}, 0.2, 500},
		{"explicit values kept", CompletionOptions{Temperature: 0.9, MaxTokens: 50}, 0.9, 50},
	}
	for _, tt := range tests {
		got := tt.in.normalized()
		if got.Temperature != tt.wantTemp || got.MaxTokens != tt.wantMax {
			t.Errorf("%s: got %+v", tt.name, got)
		}
	}
}
