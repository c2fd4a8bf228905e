// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, azure-openai-api-key,
// anthropic-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/orgsynth/pkg/types"
)

// Key file names, one per provider.
const (
	OpenAIKey      = "openai-api-key"
	AzureOpenAIKey = "azure-openai-api-key"
	AnthropicKey   = "anthropic-api-key"
	GeminiKey      = "gemini-api-key"
)

// Secrets maps key file names to their trimmed contents.
type Secrets map[string]string

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged and skipped.
func Load(dir string, log *zap.Logger) (Secrets, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyFor returns the API key for provider, or "" if none was loaded.
// The azure provider falls back to the plain OpenAI key.
func (s Secrets) KeyFor(p types.Provider) string {
	switch p {
	case types.ProviderAzure:
		if k := s[AzureOpenAIKey]; k != "" {
			return k
		}
		return s[OpenAIKey]
	case types.ProviderOpenAI:
		return s[OpenAIKey]
	case types.ProviderAnthropic:
		return s[AnthropicKey]
	case types.ProviderGemini:
		return s[GeminiKey]
	}
	return ""
}
