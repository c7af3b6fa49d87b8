// Package llm provides the text-generation client used by the analysis
// endpoints. Providers hide behind a one-method interface so the HTTP layer
// and CLI never touch SDK types, and failures surface as classified errors
// the transport can map to status codes.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Client generates free-form text from a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config selects and tunes a provider.
type Config struct {
	Provider          string // "anthropic", "stub", "none"/"disabled"/""
	APIKey            string
	Model             string
	MaxTokens         int64
	RequestsPerMinute int // 0 disables client-side rate limiting
}

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 2048
)

// New builds a client for cfg.Provider. Disabled providers return (nil, nil):
// callers treat a nil client as "use the template summarizer".
func New(cfg Config) (Client, error) {
	var client Client

	switch strings.ToLower(cfg.Provider) {
	case "", "none", "disabled":
		return nil, nil
	case "stub":
		client = &stubClient{}
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, eris.New("llm: anthropic provider requires an API key")
		}
		model := cfg.Model
		if model == "" {
			model = defaultModel
		}
		maxTokens := cfg.MaxTokens
		if maxTokens <= 0 {
			maxTokens = defaultMaxTokens
		}
		client = newAnthropicClient(cfg.APIKey, model, maxTokens)
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}

	if cfg.RequestsPerMinute > 0 {
		client = withRateLimit(client, cfg.RequestsPerMinute)
	}
	return client, nil
}
