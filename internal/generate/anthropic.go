// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/pdiddy/orgsynth/pkg/types"
)

const anthropicMaxTokens = 2048

// AnthropicClient is a ChatClient for the Claude Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient builds a client from cfg. cfg.Deployment names the model.
func NewAnthropicClient(cfg types.BackendConfig, httpClient *http.Client) (*AnthropicClient, error) {
	cfg = cfg.WithDefaults()
	if cfg.Key == "" {
		return nil, fmt.Errorf("anthropic provider requires an api key (set --key or .secrets/anthropic-api-key)")
	}

	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(cfg.Key),
		anthropicoption.WithMaxRetries(0),
	}
	if cfg.URI != "" {
		opts = append(opts, anthropicoption.WithBaseURL(cfg.URI))
	}
	if httpClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(httpClient))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  cfg.Deployment,
	}, nil
}

// Complete implements ChatClient. System messages are folded into the
// request's system prompt. Claude accepts temperatures up to 1.0, so higher
// values are clamped.
func (c *AnthropicClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(min(temperature, 1.0)),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic messages returned no text content")
	}
	return sb.String(), nil
}
