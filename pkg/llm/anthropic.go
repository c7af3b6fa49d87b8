package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// anthropicClient implements Client using the official anthropic-sdk-go.
type anthropicClient struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

func newAnthropicClient(apiKey, model string, maxTokens int64) *anthropicClient {
	return &anthropicClient{
		client: sdk.NewClient(
			option.WithAPIKey(apiKey),
		),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *anthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	zap.L().Info("llm generation",
		zap.String("model", c.model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.String("stop_reason", string(msg.StopReason)),
	)

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
