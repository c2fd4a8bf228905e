package generate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/internal/httputil"
	"github.com/pdiddy/orgsynth/pkg/types"
)

// NewChatClient returns the ChatClient for cfg.Provider. All providers share
// an HTTP client that retries rate-limited requests.
func NewChatClient(ctx context.Context, cfg types.BackendConfig, log *zap.Logger) (ChatClient, error) {
	cfg = cfg.WithDefaults()
	httpClient := httputil.NewClient(cfg.Timeout, cfg.HTTPRetries, log)

	switch cfg.Provider {
	case types.ProviderAzure, types.ProviderOpenAI:
		return NewOpenAIClient(cfg, httpClient)
	case types.ProviderAnthropic:
		return NewAnthropicClient(cfg, httpClient)
	case types.ProviderGemini:
		return NewGeminiClient(ctx, cfg, httpClient)
	default:
		return nil, fmt.Errorf("unknown provider %q: use azure, openai, anthropic or gemini", cfg.Provider)
	}
}

// NewRemote builds a PromptBackend for cfg.
func NewRemote(ctx context.Context, cfg types.BackendConfig, log *zap.Logger) (*PromptBackend, error) {
	client, err := NewChatClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return NewPromptBackend(client, cfg, log), nil
}
