// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/orgsynth/pkg/types"
)

// capture records the path and decoded JSON body of every request and
// answers with a fixed body.
type capture struct {
	mu     sync.Mutex
	paths  []string
	bodies []map[string]any
	reply  string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var body map[string]any
		_ = json.Unmarshal(data, &body)

		c.mu.Lock()
		c.paths = append(c.paths, r.URL.Path)
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, c.reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

var chatMessages = []Message{
	{Role: RoleSystem, Content: "You are a generator."},
	{Role: RoleUser, Content: "Write a company."},
}

func TestOpenAIClient_Complete(t *testing.T) {
	c := &capture{reply: `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": "{\"Name\": \"Acme\"}"}}]
	}`}
	srv := c.server(t)

	client, err := NewChatClient(context.Background(), types.BackendConfig{
		Provider: types.ProviderOpenAI, Key: "sk-test", URI: srv.URL + "/v1/", Deployment: "gpt-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.IsType(t, &OpenAIClient{}, client)

	got, err := client.Complete(context.Background(), chatMessages, 1.1)
	require.NoError(t, err)
	assert.Equal(t, `{"Name": "Acme"}`, got)

	require.Len(t, c.paths, 1)
	assert.True(t, strings.HasSuffix(c.paths[0], "/chat/completions"), c.paths[0])
	body := c.bodies[0]
	assert.Equal(t, "gpt-test", body["model"])
	assert.InDelta(t, 1.1, body["temperature"], 1e-9)
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	c := &capture{reply: `{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`}
	srv := c.server(t)

	client, err := NewOpenAIClient(types.BackendConfig{
		Provider: types.ProviderOpenAI, Key: "sk-test", URI: srv.URL + "/v1/",
	}, nil)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), chatMessages, 1)
	assert.ErrorContains(t, err, "no choices")
}

func TestAnthropicClient_Complete(t *testing.T) {
	c := &capture{reply: `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
		"content": [{"type": "text", "text": "Subject: Hello"}],
		"stop_reason": "end_turn", "usage": {"input_tokens": 3, "output_tokens": 2}
	}`}
	srv := c.server(t)

	client, err := NewChatClient(context.Background(), types.BackendConfig{
		Provider: types.ProviderAnthropic, Key: "sk-ant-test", URI: srv.URL, Deployment: "claude-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.IsType(t, &AnthropicClient{}, client)

	got, err := client.Complete(context.Background(), chatMessages, 1.2)
	require.NoError(t, err)
	assert.Equal(t, "Subject: Hello", got)

	require.Len(t, c.paths, 1)
	assert.True(t, strings.HasSuffix(c.paths[0], "/messages"), c.paths[0])
	body := c.bodies[0]
	assert.Equal(t, "claude-test", body["model"])
	assert.InDelta(t, 1.0, body["temperature"], 1e-9, "temperature is clamped to 1")
	assert.Contains(t, body, "system", "system messages become the system prompt")
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
}

func TestAnthropicClient_DefaultModel(t *testing.T) {
	c := &capture{reply: `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "m",
		"content": [{"type": "text", "text": "ok"}],
		"stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 1}
	}`}
	srv := c.server(t)

	client, err := NewAnthropicClient(types.BackendConfig{
		Provider: types.ProviderAnthropic, Key: "sk-ant-test", URI: srv.URL,
	}, nil)
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), chatMessages, 0.5)
	require.NoError(t, err)

	require.Len(t, c.bodies, 1)
	assert.Equal(t, types.DefaultAnthropicModel, c.bodies[0]["model"], "not the azure deployment name")
}

func TestGeminiClient_Complete(t *testing.T) {
	c := &capture{reply: `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "Hallo"}]}, "finishReason": "STOP"}]
	}`}
	srv := c.server(t)

	client, err := NewChatClient(context.Background(), types.BackendConfig{
		Provider: types.ProviderGemini, Key: "gm-test", URI: srv.URL + "/", Deployment: "gemini-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.IsType(t, &GeminiClient{}, client)

	got, err := client.Complete(context.Background(), chatMessages, 0.9)
	require.NoError(t, err)
	assert.Equal(t, "Hallo", got)

	require.Len(t, c.paths, 1)
	assert.Contains(t, c.paths[0], "gemini-test:generateContent")
	assert.Contains(t, c.bodies[0], "systemInstruction")
}

func TestNewChatClient_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.BackendConfig
		want string
	}{
		{"azure without uri", types.BackendConfig{Provider: types.ProviderAzure, Key: "k"}, "endpoint uri"},
		{"azure without key", types.BackendConfig{Provider: types.ProviderAzure, URI: "https://x.openai.azure.com"}, "api key"},
		{"default provider is azure", types.BackendConfig{Key: "k"}, "azure provider requires an endpoint"},
		{"openai without key", types.BackendConfig{Provider: types.ProviderOpenAI}, "api key"},
		{"anthropic without key", types.BackendConfig{Provider: types.ProviderAnthropic}, "api key"},
		{"gemini without key", types.BackendConfig{Provider: types.ProviderGemini}, "api key"},
		{"unknown provider", types.BackendConfig{Provider: "watson"}, "unknown provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRemote(context.Background(), tt.cfg, zaptest.NewLogger(t))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewRemote_Azure(t *testing.T) {
	b, err := NewRemote(context.Background(), types.BackendConfig{
		Provider: types.ProviderAzure, Key: "k", URI: "https://example.openai.azure.com",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, types.DefaultMaxRetries+1, b.MaxAttempts())
}
