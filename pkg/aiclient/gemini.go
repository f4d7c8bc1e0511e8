package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

const (
	geminiEmbeddingModel = "text-embedding-004"
	geminiChatModel      = "gemini-1.5-flash"
	// text-embedding-004 produces 768-dimensional vectors.
	geminiDim = 768
)

// GeminiClient wraps Google's generative AI SDK. It exists as the
// extensibility proof for the provider set: a third variant behind the
// same capability interface.
type GeminiClient struct {
	client          *genai.Client
	embeddingModel  string
	chatModel       string
	embedTimeout    time.Duration
	completeTimeout time.Duration
	logger          *logger.Logger
}

func NewGeminiClient(cfg config.AIConfig, lg *logger.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, &ConfigurationError{Reason: "gemini_api_key is not set"}
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to create gemini client: %v", err)}
	}
	embeddingModel := geminiEmbeddingModel
	if cfg.EmbeddingModel != "" {
		embeddingModel = cfg.EmbeddingModel
	}
	chatModel := geminiChatModel
	if cfg.ChatModel != "" {
		chatModel = cfg.ChatModel
	}
	return &GeminiClient{
		client:          client,
		embeddingModel:  embeddingModel,
		chatModel:       chatModel,
		embedTimeout:    cfg.EmbedTimeout(),
		completeTimeout: cfg.CompleteTimeout(),
		logger:          lg,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) Dim() int { return geminiDim }

// Embed implements Client.
func (c *GeminiClient) Embed(ctx context.Context, text string) (dbtypes.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return dbtypes.ZeroVector(c.Dim()), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	em := c.client.EmbeddingModel(c.embeddingModel)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, c.wrapErr(err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, &APIError{Provider: c.Provider(), Err: fmt.Errorf("response has no embedding values")}
	}
	return dbtypes.Vector(res.Embedding.Values), nil
}

// Complete implements Client. System messages become the model's system
// instruction; the remaining messages are concatenated as the user turn.
func (c *GeminiClient) Complete(ctx context.Context, msgs []Message, opts CompletionOptions) (string, error) {
	opts = opts.normalized()

	ctx, cancel := context.WithTimeout(ctx, c.completeTimeout)
	defer cancel()

	model := c.client.GenerativeModel(c.chatModel)
	model.SetTemperature(float32(opts.Temperature))
	model.SetMaxOutputTokens(int32(opts.MaxTokens))

	var system, user strings.Builder
	for _, msg := range msgs {
		if msg.Role == RoleSystem {
			if system.Len() > 0 {
				system.WriteString("\n")
			}
			system.WriteString(msg.Content)
			continue
		}
		if user.Len() > 0 {
			user.WriteString("\n")
		}
		user.WriteString(msg.Content)
	}
	if system.Len() > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system.String())},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user.String()))
	if err != nil {
		return "", c.wrapErr(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &APIError{Provider: c.Provider(), Err: fmt.Errorf("response has no candidates")}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return strings.TrimSpace(out.String()), nil
}

func (c *GeminiClient) wrapErr(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &APIError{Provider: c.Provider(), Status: gerr.Code, Err: err}
	}
	return &APIError{Provider: c.Provider(), Err: err}
}
