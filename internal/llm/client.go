package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"chatpdf/internal/contextutil"
)

// Client sends chat completion requests to an OpenAI-compatible API.
type Client struct {
	BaseURL string
	Model   string
	llm     llms.Model
}

// NewClient creates a new LLM client. baseURL includes the API version
// prefix, e.g. "https://api.openai.com/v1".
func NewClient(baseURL, apiKey, model string) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(baseURL),
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat client: %w", err)
	}
	return &Client{BaseURL: baseURL, Model: model, llm: llm}, nil
}

// Chat sends a single user message with deterministic sampling.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	return c.ChatWithMessages(ctx, []Message{{Role: RoleUser, Content: message}}, ChatParams{})
}

// ChatWithMessages sends a conversation and returns the first choice's text.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(messages) == 0 {
		return "", errors.New("no messages to send")
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role, err := messageType(m.Role)
		if err != nil {
			return "", err
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	opts := []llms.CallOption{llms.WithTemperature(params.Temperature)}
	if params.Model != "" {
		opts = append(opts, llms.WithModel(params.Model))
	}
	if params.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		logger.ErrorContext(ctx, "chat completion failed", "model", c.Model, "error", err)
		return "", fmt.Errorf("%w: chat completion: %w", ErrServiceFailure, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", ErrServiceFailure)
	}

	choice := resp.Choices[0]
	logger.DebugContext(ctx, "chat completion", "model", c.Model, "messages", len(messages), "stop_reason", choice.StopReason)
	return choice.Content, nil
}

func messageType(role string) (llms.ChatMessageType, error) {
	switch role {
	case RoleSystem:
		return llms.ChatMessageTypeSystem, nil
	case RoleUser, "":
		return llms.ChatMessageTypeHuman, nil
	case RoleAssistant:
		return llms.ChatMessageTypeAI, nil
	default:
		return "", fmt.Errorf("unknown message role %q", role)
	}
}
