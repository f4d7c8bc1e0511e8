package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/internal/database/dbtypes"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// OpenAIClient wraps the official openai-go SDK.
type OpenAIClient struct {
	client          openai.Client
	embeddingModel  openai.EmbeddingModel
	chatModel       openai.ChatModel
	embedTimeout    time.Duration
	completeTimeout time.Duration
	logger          *logger.Logger
}

func NewOpenAIClient(cfg config.AIConfig, lg *logger.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, &ConfigurationError{Reason: "openai_api_key is not set"}
	}
	embeddingModel := openai.EmbeddingModelTextEmbeddingAda002
	if cfg.EmbeddingModel != "" {
		embeddingModel = openai.EmbeddingModel(cfg.EmbeddingModel)
	}
	chatModel := openai.ChatModelGPT3_5Turbo
	if cfg.ChatModel != "" {
		chatModel = openai.ChatModel(cfg.ChatModel)
	}
	return &OpenAIClient{
		client:          openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		embeddingModel:  embeddingModel,
		chatModel:       chatModel,
		embedTimeout:    cfg.EmbedTimeout(),
		completeTimeout: cfg.CompleteTimeout(),
		logger:          lg,
	}, nil
}

func (c *OpenAIClient) Provider() string { return "openai" }

func (c *OpenAIClient) Dim() int { return DefaultDim }

// Embed implements Client.
func (c *OpenAIClient) Embed(ctx context.Context, text string) (dbtypes.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return dbtypes.ZeroVector(c.Dim()), nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: c.embeddingModel,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return nil, c.wrapErr(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &APIError{Provider: c.Provider(), Err: fmt.Errorf("response has no embedding data")}
	}

	vec := make(dbtypes.Vector, len(resp.Data[0].Embedding))
	for i, f := range resp.Data[0].Embedding {
		vec[i] = float32(f)
	}
	return vec, nil
}

// Complete implements Client.
func (c *OpenAIClient) Complete(ctx context.Context, msgs []Message, opts CompletionOptions) (string, error) {
	opts = opts.normalized()

	ctx, cancel := context.WithTimeout(ctx, c.completeTimeout)
	defer cancel()

	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.chatModel,
		Messages:    converted,
		Temperature: openai.Float(opts.Temperature),
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
	})
	if err != nil {
		return "", c.wrapErr(err)
	}
	if len(completion.Choices) == 0 {
		return "", &APIError{Provider: c.Provider(), Err: fmt.Errorf("response has no choices")}
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) wrapErr(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &APIError{Provider: c.Provider(), Status: apierr.StatusCode, Err: err}
	}
	return &APIError{Provider: c.Provider(), Err: err}
}
