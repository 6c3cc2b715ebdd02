package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the model gateway configuration.
type Config struct {
	// Credentials is the ordered failover pool, tried left-to-right on
	// every call. Static for the process lifetime.
	Credentials []Credential

	// Timeout bounds a single credential's attempt.
	Timeout time.Duration

	// Sampling defaults sent with every interview call.
	MaxTokens         int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "meta-llama/llama-3.3-70b-instruct:free"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// defaultModels maps provider name to the default model for pool entries.
var defaultModels = map[string]string{
	"openrouter": "llama-free",
	"openai":     "gpt-4o-mini",
	"anthropic":  "claude-haiku",
	"gemini":     "gemini-flash",
}

// DefaultConfig returns a Config with sensible defaults. The sampling
// values match what the interviewer directive was tuned against.
func DefaultConfig() Config {
	return Config{
		Timeout:           DefaultCredentialTimeout,
		MaxTokens:         1024,
		Temperature:       0.7,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
	}
}

// ConfigFromEnv builds a Config from environment variables.
//
// VERCUS_CREDENTIALS is the pool definition: comma-separated
// "provider=key" entries, in failover order, e.g.
//
//	VERCUS_CREDENTIALS="openrouter=sk-or-aaa,openrouter=sk-or-bbb,gemini=AIza..."
//
// Per-provider model overrides come from VERCUS_<PROVIDER>_MODEL.
// When VERCUS_CREDENTIALS is unset, the standard per-vendor key variables
// (OPENROUTER_API_KEY, GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY)
// are probed in that order and each key found joins the pool.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if t := os.Getenv("VERCUS_CREDENTIAL_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return Config{}, fmt.Errorf("parse VERCUS_CREDENTIAL_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if spec := os.Getenv("VERCUS_CREDENTIALS"); spec != "" {
		creds, err := ParseCredentials(spec)
		if err != nil {
			return Config{}, err
		}
		cfg.Credentials = creds
		return cfg, nil
	}

	cfg.Credentials = discoverCredentials()
	return cfg, nil
}

// ParseCredentials parses a comma-separated "provider=key" pool spec.
func ParseCredentials(spec string) ([]Credential, error) {
	var creds []Credential
	counts := make(map[string]int)

	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		provider, key, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed credential entry %q (want provider=key)", redactEntry(entry))
		}
		provider = strings.ToLower(strings.TrimSpace(provider))
		if _, known := defaultModels[provider]; !known {
			return nil, fmt.Errorf("unknown provider %q in VERCUS_CREDENTIALS", provider)
		}

		counts[provider]++
		creds = append(creds, Credential{
			Label:    fmt.Sprintf("%s-%d", provider, counts[provider]),
			Provider: provider,
			APIKey:   strings.TrimSpace(key),
			Model:    modelForProvider(provider),
		})
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("VERCUS_CREDENTIALS contains no credentials")
	}
	return creds, nil
}

// discoverCredentials probes standard API key env vars in priority order
// and returns a pool entry for each key found.
func discoverCredentials() []Credential {
	probes := []struct {
		envVar   string
		provider string
	}{
		{"OPENROUTER_API_KEY", "openrouter"},
		{"GEMINI_API_KEY", "gemini"},
		{"OPENAI_API_KEY", "openai"},
		{"ANTHROPIC_API_KEY", "anthropic"},
	}

	var creds []Credential
	for _, p := range probes {
		if k := os.Getenv(p.envVar); k != "" {
			creds = append(creds, Credential{
				Label:    p.provider + "-1",
				Provider: p.provider,
				APIKey:   k,
				Model:    modelForProvider(p.provider),
			})
		}
	}
	return creds
}

// Validate checks that the pool is usable.
func (c Config) Validate() error {
	if len(c.Credentials) == 0 {
		return fmt.Errorf("no credentials configured: set VERCUS_CREDENTIALS or a provider API key variable")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("credential timeout must be positive")
	}
	return nil
}

func modelForProvider(provider string) string {
	envVar := "VERCUS_" + strings.ToUpper(provider) + "_MODEL"
	if m := os.Getenv(envVar); m != "" {
		return m
	}
	return defaultModels[provider]
}

// redactEntry strips anything after '=' so error messages never echo a key.
func redactEntry(entry string) string {
	if provider, _, ok := strings.Cut(entry, "="); ok {
		return provider + "=..."
	}
	return entry
}
