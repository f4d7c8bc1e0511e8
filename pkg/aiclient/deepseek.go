package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

const (
	deepseekBaseURL        = "https://api.deepseek.com/v1"
	deepseekEmbeddingModel = "deepseek-embedding"
	deepseekChatModel      = "deepseek-chat"
)

// DeepseekClient talks to DeepSeek's OpenAI-compatible HTTP API. There
// is no official Go SDK, so the wire format is handled directly.
type DeepseekClient struct {
	apiKey          string
	baseURL         string
	embeddingModel  string
	chatModel       string
	embedTimeout    time.Duration
	completeTimeout time.Duration
	httpClient      *http.Client
	logger          *logger.Logger
}

func NewDeepseekClient(cfg config.AIConfig, lg *logger.Logger) (*DeepseekClient, error) {
	if strings.TrimSpace(cfg.DeepseekAPIKey) == "" {
		return nil, &ConfigurationError{Reason: "deepseek_api_key is not set"}
	}
	baseURL := cfg.DeepseekBaseURL
	if baseURL == "" {
		baseURL = deepseekBaseURL
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = deepseekEmbeddingModel
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = deepseekChatModel
	}
	return &DeepseekClient{
		apiKey:          cfg.DeepseekAPIKey,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		embeddingModel:  embeddingModel,
		chatModel:       chatModel,
		embedTimeout:    cfg.EmbedTimeout(),
		completeTimeout: cfg.CompleteTimeout(),
		httpClient:      &http.Client{},
		logger:          lg,
	}, nil
}

func (c *DeepseekClient) Provider() string { return "deepseek" }

func (c *DeepseekClient) Dim() int { return DefaultDim }

type deepseekEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type deepseekEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed implements Client. Blank input short-circuits to a zero vector
// so downstream code never sees a nil embedding and no call is wasted.
func (c *DeepseekClient) Embed(ctx context.Context, text string) (dbtypes.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return dbtypes.ZeroVector(c.Dim()), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	body, err := c.post(ctx, "/embeddings", deepseekEmbeddingRequest{
		Model: c.embeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, err
	}

	var parsed deepseekEmbeddingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &APIError{Provider: c.Provider(), Body: truncateBody(body), Err: err}
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, &APIError{Provider: c.Provider(), Body: truncateBody(body), Err: fmt.Errorf("response has no embedding data")}
	}
	return dbtypes.Vector(parsed.Data[0].Embedding), nil
}

type deepseekChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type deepseekChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements Client.
func (c *DeepseekClient) Complete(ctx context.Context, msgs []Message, opts CompletionOptions) (string, error) {
	opts = opts.normalized()

	ctx, cancel := context.WithTimeout(ctx, c.completeTimeout)
	defer cancel()

	body, err := c.post(ctx, "/chat/completions", deepseekChatRequest{
		Model:       c.chatModel,
		Messages:    msgs,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	var parsed deepseekChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &APIError{Provider: c.Provider(), Body: truncateBody(body), Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &APIError{Provider: c.Provider(), Body: truncateBody(body), Err: fmt.Errorf("response has no choices")}
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *DeepseekClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Provider: c.Provider(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Provider: c.Provider(), Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Provider: c.Provider(), Status: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}

func truncateBody(body []byte) string {
	const max = 512
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}
