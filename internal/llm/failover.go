package llm

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultCredentialTimeout bounds a single credential's attempt so one hung
// provider cannot stall failover to the rest of the pool.
const DefaultCredentialTimeout = 60 * time.Second

// Credential identifies one provider account in the failover pool.
// Label is what gets logged on failure; the key never is.
type Credential struct {
	Label    string
	Provider string // "openrouter", "openai", "anthropic", "gemini"
	APIKey   string
	Model    string
	BaseURL  string
}

// FailoverProvider tries an ordered list of credentials on every call.
// A credential that fails is abandoned for the current call only; the pool
// itself is never reordered or shrunk, so transient provider outages
// self-heal on the next call. Safe for concurrent use by multiple sessions.
type FailoverProvider struct {
	providers []Provider
	labels    []string
	timeout   time.Duration
	logOut    io.Writer
}

// FailoverOption configures a FailoverProvider.
type FailoverOption func(*FailoverProvider)

// WithCredentialTimeout overrides the per-credential attempt timeout.
func WithCredentialTimeout(d time.Duration) FailoverOption {
	return func(f *FailoverProvider) { f.timeout = d }
}

// WithFailureLog redirects per-credential failure logging (stderr by default).
func WithFailureLog(w io.Writer) FailoverOption {
	return func(f *FailoverProvider) { f.logOut = w }
}

// NewFailoverProvider builds one inner provider per credential, in pool
// order. Construction fails if the pool is empty or any credential is
// malformed; a half-built pool would silently change failover semantics.
func NewFailoverProvider(ctx context.Context, pool []Credential, opts ...FailoverOption) (*FailoverProvider, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("credential pool is empty")
	}

	f := &FailoverProvider{
		timeout: DefaultCredentialTimeout,
		logOut:  os.Stderr,
	}
	for _, opt := range opts {
		opt(f)
	}

	for i, cred := range pool {
		p, err := buildProvider(ctx, cred)
		if err != nil {
			return nil, fmt.Errorf("credential %d (%s): %w", i, cred.Label, err)
		}
		f.providers = append(f.providers, p)
		f.labels = append(f.labels, cred.Label)
	}

	return f, nil
}

// Generate iterates the pool left-to-right and returns the first success.
// Every call starts from the front: there is no "last good" memory.
func (f *FailoverProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for i, p := range f.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		resp, err := p.Generate(attemptCtx, req)
		cancel()

		if err == nil {
			return resp, nil
		}
		lastErr = err

		// The parent context ending is not a credential failure; stop
		// instead of burning through the rest of the pool.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		fmt.Fprintf(f.logOut, "credential %q failed (%d/%d): %v\n",
			f.labels[i], i+1, len(f.providers), err)
	}

	return nil, &ErrPoolExhausted{Attempts: len(f.providers), LastErr: lastErr}
}

// ModelID returns the first credential's model; the pool is expected to be
// configured with interchangeable models.
func (f *FailoverProvider) ModelID() string {
	return f.providers[0].ModelID()
}

// PoolSize returns the number of credentials in the pool.
func (f *FailoverProvider) PoolSize() int {
	return len(f.providers)
}

func buildProvider(ctx context.Context, cred Credential) (Provider, error) {
	switch cred.Provider {
	case "openrouter":
		return NewOpenRouterProvider(OpenRouterConfig{
			APIKey:  cred.APIKey,
			Model:   cred.Model,
			BaseURL: cred.BaseURL,
		})
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cred.APIKey,
			Model:   cred.Model,
			BaseURL: cred.BaseURL,
		})
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey: cred.APIKey,
			Model:  cred.Model,
		})
	case "gemini":
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey: cred.APIKey,
			Model:  cred.Model,
		})
	default:
		return nil, fmt.Errorf("unknown provider: %q", cred.Provider)
	}
}
