// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/pdiddy/orgsynth/pkg/types"
)

// OpenAIClient is a ChatClient for OpenAI and Azure OpenAI deployments.
type OpenAIClient struct {
	client     openai.Client
	deployment string
}

// NewOpenAIClient builds a client for cfg.Provider azure or openai. Azure
// requires cfg.URI and a key; plain OpenAI uses cfg.URI as an optional base
// URL override.
func NewOpenAIClient(cfg types.BackendConfig, httpClient *http.Client) (*OpenAIClient, error) {
	cfg = cfg.WithDefaults()

	opts := []option.RequestOption{
		// 429s are retried by the transport; other failures by PromptBackend.
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	switch cfg.Provider {
	case types.ProviderAzure:
		if cfg.URI == "" {
			return nil, fmt.Errorf("azure provider requires an endpoint uri (set --uri)")
		}
		if cfg.Key == "" {
			return nil, fmt.Errorf("azure provider requires an api key (set --key or .secrets/azure-openai-api-key)")
		}
		opts = append(opts,
			azure.WithEndpoint(cfg.URI, cfg.APIVersion),
			azure.WithAPIKey(cfg.Key),
		)
	case types.ProviderOpenAI:
		if cfg.Key == "" {
			return nil, fmt.Errorf("openai provider requires an api key (set --key or .secrets/openai-api-key)")
		}
		opts = append(opts, option.WithAPIKey(cfg.Key))
		if cfg.URI != "" {
			opts = append(opts, option.WithBaseURL(cfg.URI))
		}
	default:
		return nil, fmt.Errorf("provider %q is not served by the OpenAI client", cfg.Provider)
	}

	return &OpenAIClient{
		client:     openai.NewClient(opts...),
		deployment: cfg.Deployment,
	}, nil
}

// Complete implements ChatClient.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.deployment),
		Temperature: openai.Float(temperature),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
