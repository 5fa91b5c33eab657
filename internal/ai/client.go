// Package ai talks to an OpenAI compatible chat completion endpoint.
package ai

import (
	"context"
	"errors"
	"fmt"

	"kungfu-delivery/internal/service"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyReply = errors.New("chat completion returned no content")

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

type Client struct {
	model  string
	client *openai.Client
}

// NewClient points the OpenAI SDK at config.BaseURL, which is how DashScope's
// compatible mode is reached. A nil doer keeps the SDK's default HTTP client.
func NewClient(config Config, doer openai.HTTPDoer) *Client {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if doer != nil {
		clientConfig.HTTPClient = doer
	}
	return &Client{model: config.Model, client: openai.NewClientWithConfig(clientConfig)}
}

// Complete sends prompt as a single user message in JSON output mode and
// returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

var _ service.ChatCompleter = (*Client)(nil)
