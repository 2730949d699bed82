package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider is the text-analysis oracle. One call, one reply; callers own retries.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

var ErrEmptyReply = errors.New("llm returned an empty reply")

type Config struct {
	Provider  string // vertex|gemini|openrouter
	Model     string
	ProjectID string
	Location  string
	APIKey    string
	BaseURL   string
}

// New builds the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "vertex":
		if cfg.ProjectID == "" {
			return nil, errors.New("GCP_PROJECT_ID is required for the vertex provider")
		}
		return NewVertexGemini(ctx, cfg.ProjectID, cfg.Location, cfg.Model)
	case "gemini":
		return NewGeminiAPI(ctx, cfg.APIKey, cfg.Model)
	case "openrouter":
		return NewOpenRouter(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
