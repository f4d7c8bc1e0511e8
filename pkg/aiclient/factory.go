package aiclient

import (
	"fmt"
	"strings"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// New resolves the configured provider to a concrete client. An empty
// provider falls back to DeepSeek, the documented default; anything
// else unknown is a ConfigurationError.
func New(cfg config.AIConfig, lg *logger.Logger) (Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "deepseek":
		return NewDeepseekClient(cfg, lg)
	case "openai":
		return NewOpenAIClient(cfg, lg)
	case "gemini":
		return NewGeminiClient(cfg, lg)
	default:
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("unknown ai provider %q, use 'deepseek', 'openai' or 'gemini'", cfg.Provider),
		}
	}
}
