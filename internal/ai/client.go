// Package ai holds the OpenAI-backed ticket analysis: classification of
// ticket text into sentiment and issue type, and reply generation.
package ai

import (
	"context"
	"net/http"
	"time"

	"ticketflow/internal/config"

	"github.com/sashabaranov/go-openai"
)

// FragmentStream is a lazy, finite, non-restartable sequence of text
// fragments. Recv returns io.EOF on normal termination; any other error
// means the sequence ended abnormally and whatever was received so far
// is all there is.
type FragmentStream interface {
	Recv() (string, error)
	Close() error
}

// Completer is the completion transport the classifier and reply
// generator consume. Satisfied by Client; faked in tests.
type Completer interface {
	Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	Stream(ctx context.Context, req openai.ChatCompletionRequest) (FragmentStream, error)
}

// Client wraps the OpenAI API client.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates an OpenAI client from configuration.
func NewClient(cfg *config.Config) *Client {
	model := cfg.OpenAIModel
	if model == "" {
		model = string(openai.GPT4oMini)
	}

	apiConfig := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAITimeout > 0 {
		apiConfig.HTTPClient = &http.Client{Timeout: time.Duration(cfg.OpenAITimeout) * time.Second}
	}

	return &Client{
		api:   openai.NewClientWithConfig(apiConfig),
		model: model,
	}
}

// Model returns the chat model in use.
func (c *Client) Model() string {
	return c.model
}

// Complete performs a single, non-streamed chat completion.
func (c *Client) Complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return c.api.CreateChatCompletion(ctx, req)
}

// Stream opens a streamed chat completion and returns it as a fragment
// sequence.
func (c *Client) Stream(ctx context.Context, req openai.ChatCompletionRequest) (FragmentStream, error) {
	req.Stream = true
	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, err
	}
	return &completionStream{inner: stream}, nil
}

// completionStream adapts the OpenAI stream to FragmentStream.
type completionStream struct {
	inner *openai.ChatCompletionStream
}

func (s *completionStream) Recv() (string, error) {
	resp, err := s.inner.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *completionStream) Close() error {
	return s.inner.Close()
}
