// ABOUTME: OpenAI chat completion client for answer generation
// ABOUTME: Single call per request with a timeout, no automatic retries
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultChatModel is the default model for chat completions.
const DefaultChatModel = "gpt-4o-mini"

// Message is one entry in the completion request.
type Message struct {
	Role    string
	Content string
}

// Completer is the remote completion boundary the composer calls.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// OpenAIClient wraps the OpenAI API client. Each Complete call is bounded
// by the configured timeout; a timed-out call resolves to an error, it is
// never retried.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewOpenAIClient creates a client for the given key and model.
func NewOpenAIClient(apiKey, model string, temperature float32, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = DefaultChatModel
	}
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}, nil
}

// Model reports the configured chat model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends the message sequence and returns the trimmed response text.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
		Temperature: c.temperature,
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
