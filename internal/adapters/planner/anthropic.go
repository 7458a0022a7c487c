package planner

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

// MessagesClient is the subset of the Anthropic SDK the completer uses.
// *sdk.MessageService satisfies it.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// AnthropicCompleter sends prompts to the Messages API.
type AnthropicCompleter struct {
	msgs MessagesClient
	opts Options
}

// NewAnthropicCompleter wraps msgs. An empty model selects DefaultAnthropicModel.
func NewAnthropicCompleter(msgs MessagesClient, opts Options) (*AnthropicCompleter, error) {
	if msgs == nil {
		return nil, errors.New("anthropic: messages client is required")
	}
	return &AnthropicCompleter{msgs: msgs, opts: opts.withDefaults(DefaultAnthropicModel)}, nil
}

// NewAnthropicFromAPIKey builds a completer on the SDK's default options.
func NewAnthropicFromAPIKey(apiKey string, opts Options) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic: api key is required")
	}
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicCompleter(&client.Messages, opts)
}

// Complete implements Completer.
func (c *AnthropicCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	msg, err := c.msgs.New(ctx, sdk.MessageNewParams{
		MaxTokens:   int64(c.opts.MaxTokens),
		Model:       sdk.Model(c.opts.Model),
		System:      []sdk.TextBlockParam{{Text: system}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(user))},
		Temperature: sdk.Float(c.opts.Temperature),
	})
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", errors.New("anthropic: response message is nil")
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("anthropic: no text in response")
	}
	return b.String(), nil
}
