package types

import "time"

// Provider identifies the remote completion service behind the prompt backend.
type Provider string

const (
	ProviderAzure     Provider = "azure"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// BackendConfig holds settings for the remote generation backend.
// Every field can be changed at runtime through the set command.
type BackendConfig struct {
	// Provider selects the completion service (default azure).
	Provider Provider `json:"provider" yaml:"provider"`

	// URI is the service endpoint. Required for azure; optional base URL
	// override for the others.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// Key is the API key. An empty key falls back to .secrets/.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Deployment is the model or Azure deployment name. Empty selects the
	// provider's default model (see DefaultModel).
	Deployment string `json:"deployment" yaml:"deployment"`

	// APIVersion is the Azure OpenAI API version.
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`

	// MaxRetries is the number of retries after a failed structured
	// generation attempt (default 3, i.e. 4 attempts in total).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// TemperatureMin and TemperatureMax bound the randomized sampling
	// temperature used for every request.
	TemperatureMin float64 `json:"temperature_min" yaml:"temperature_min"`
	TemperatureMax float64 `json:"temperature_max" yaml:"temperature_max"`

	// HTTPRetries is the number of retries on HTTP 429 responses (default 5).
	HTTPRetries int `json:"http_retries" yaml:"http_retries"`

	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Defaults used when a BackendConfig field is left zero.
const (
	DefaultAPIVersion     = "2024-06-01"
	DefaultMaxRetries     = 3
	DefaultTemperatureMin = 0.8
	DefaultTemperatureMax = 1.2
	DefaultHTTPRetries    = 5
)

// Default models per provider, used when Deployment is empty.
const (
	DefaultAzureDeployment = "gpt-35-turbo-16k"
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultAnthropicModel  = "claude-3-5-haiku-latest"
	DefaultGeminiModel     = "gemini-2.0-flash"
)

// DefaultModel returns the model used for p when no deployment is set. An
// unknown provider has no default.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAzure:
		return DefaultAzureDeployment
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderAnthropic:
		return DefaultAnthropicModel
	case ProviderGemini:
		return DefaultGeminiModel
	default:
		return ""
	}
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c BackendConfig) WithDefaults() BackendConfig {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.Deployment == "" {
		c.Deployment = DefaultModel(c.Provider)
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.TemperatureMin <= 0 {
		c.TemperatureMin = DefaultTemperatureMin
	}
	if c.TemperatureMax <= c.TemperatureMin {
		c.TemperatureMax = c.TemperatureMin + (DefaultTemperatureMax - DefaultTemperatureMin)
	}
	if c.HTTPRetries <= 0 {
		c.HTTPRetries = DefaultHTTPRetries
	}
	return c
}
