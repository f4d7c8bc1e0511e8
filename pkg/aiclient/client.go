// Package aiclient abstracts the remote AI providers used for embedding
// generation and chat completion. Concrete clients (DeepSeek, OpenAI,
// Gemini) are selected once at construction via New; a bad configuration
// fails there, never on first use.
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
)

// DefaultDim is the embedding dimensionality of the default provider
// stack (OpenAI ada-002 compatible).
const DefaultDim = 1536

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged prompt message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionOptions tunes a completion call. Zero values fall back to
// the documented defaults (temperature 0.7, max_tokens 500).
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

func (o CompletionOptions) normalized() CompletionOptions {
	if o.Temperature <= 0 || o.Temperature > 1 {
		o.Temperature = 0.7
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 500
	}
	return o
}

// DefaultCompletionOptions returns the defaults callers start from.
func DefaultCompletionOptions() CompletionOptions {
	return CompletionOptions{Temperature: 0.7, MaxTokens: 500}
}

// Client is the capability set every provider implements.
//
// Embed returns a zero vector of Dim() length for blank input without a
// network call. Complete renders the given messages through the chat
// model. Both return *APIError on upstream failure and are bounded by
// the configured timeouts.
type Client interface {
	Provider() string
	// Dim is the embedding dimensionality this provider produces.
	Dim() int
	Embed(ctx context.Context, text string) (dbtypes.Vector, error)
	Complete(ctx context.Context, msgs []Message, opts CompletionOptions) (string, error)
}

// ConfigurationError is a deployment problem (missing key, unknown
// provider). It is fatal: never retried, the job or request is dropped.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "ai client configuration error: " + e.Reason
}

// APIError is an upstream failure. Status and Body are for server-side
// diagnostics only and must never reach a caller-visible response.
type APIError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s API error", e.Provider)
	if e.Status != 0 {
		fmt.Fprintf(&sb, " (%d)", e.Status)
	}
	if e.Body != "" {
		fmt.Fprintf(&sb, ": %s", e.Body)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsAPIError reports whether err is (or wraps) an APIError.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
