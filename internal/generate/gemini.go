// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/pdiddy/orgsynth/pkg/types"
)

// GeminiClient is a ChatClient for the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a client from cfg. cfg.Deployment names the model.
func NewGeminiClient(ctx context.Context, cfg types.BackendConfig, httpClient *http.Client) (*GeminiClient, error) {
	cfg = cfg.WithDefaults()
	if cfg.Key == "" {
		return nil, fmt.Errorf("gemini provider requires an api key (set --key or .secrets/gemini-api-key)")
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.Key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.URI != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.URI}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Deployment}, nil
}

// Complete implements ChatClient. System messages become the request's
// system instruction.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate content returned no text")
	}
	return text, nil
}
