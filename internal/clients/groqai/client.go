package groqai

import (
	"context"
	"fmt"

	"fundchain-server/internal/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the Groq chat-completions API, which speaks the OpenAI wire
// protocol, so the analysis pipeline can stay provider-agnostic.
type Client struct {
	api    openai.Client
	model  string
	logger *observability.Logger
}

// New creates a Groq client. The API key is required; the caller decides
// whether a missing key disables the external analysis path.
func New(apiKey, baseURL, model string, logger *observability.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Groq API key is required")
	}
	api := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &Client{api: api, model: model, logger: logger}, nil
}

// Complete sends a system instruction plus user prompt and returns the raw
// completion text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(500),
	})
	if err != nil {
		c.logger.Error(ctx, "chat completion request failed", err)
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
