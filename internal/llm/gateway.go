package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fastfixai/tenantsite/internal/config"
)

// Gateway routes extractions to the configured provider. Calls are made
// once; there is no retry or fallback.
type Gateway struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewGateway(cfg config.LLMConfig) *Gateway {
	g := &Gateway{
		providers:       make(map[string]Provider),
		defaultProvider: cfg.Provider,
	}

	if cfg.GatewayKey != "" {
		g.Register(NewOpenAIProvider(cfg.GatewayKey, cfg.GatewayURL))
	}
	if cfg.AnthropicKey != "" {
		g.Register(NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel))
	}
	return g
}

func (g *Gateway) Register(p Provider) {
	g.providers[p.Name()] = p
}

// Configured reports whether the default provider has credentials.
func (g *Gateway) Configured() bool {
	_, ok := g.providers[g.defaultProvider]
	return ok
}

func (g *Gateway) Extract(ctx context.Context, req ExtractRequest) (json.RawMessage, error) {
	p, ok := g.providers[g.defaultProvider]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotConfigured, g.defaultProvider)
	}

	slog.Debug("llm extract", "provider", p.Name(), "model", req.Model, "tool", req.Tool.Name)
	return p.Extract(ctx, req)
}
