package planner

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// ChatClient is the subset of the go-openai client the completer uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAICompleter sends prompts to the Chat Completions API.
type OpenAICompleter struct {
	chat ChatClient
	opts Options
}

// NewOpenAICompleter wraps chat. An empty model selects DefaultOpenAIModel.
func NewOpenAICompleter(chat ChatClient, opts Options) (*OpenAICompleter, error) {
	if chat == nil {
		return nil, errors.New("openai: chat client is required")
	}
	return &OpenAICompleter{chat: chat, opts: opts.withDefaults(DefaultOpenAIModel)}, nil
}

// NewOpenAIFromAPIKey builds a completer on the default HTTP client.
func NewOpenAIFromAPIKey(apiKey string, opts Options) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	return NewOpenAICompleter(openai.NewClient(apiKey), opts)
}

// Complete implements Completer.
func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature:    float32(c.opts.Temperature),
		MaxTokens:      c.opts.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty message content")
	}
	return text, nil
}
