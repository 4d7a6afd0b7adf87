package router

import (
	"context"
	"os"

	"github.com/leebase/lee-llm-router/config"
	"github.com/leebase/lee-llm-router/internal/observability"
	"github.com/leebase/lee-llm-router/providers"
	"github.com/leebase/lee-llm-router/routing"
)

// Client is a thin facade over Router preserving the legacy call shape, so
// existing call sites can migrate without changes.
type Client struct {
	router *Router
}

// NewClient creates a client over a validated snapshot. When
// LLM_ROUTER_LOG_LEVEL is set, a structured logger is built from it and
// LLM_ROUTER_LOG_FORMAT; an explicit WithLogger option still wins.
func NewClient(snap *config.Snapshot, opts ...Option) (*Client, error) {
	if level := os.Getenv("LLM_ROUTER_LOG_LEVEL"); level != "" {
		logger, err := observability.NewLogger(level, os.Getenv("LLM_ROUTER_LOG_FORMAT"))
		if err != nil {
			return nil, err
		}
		opts = append([]Option{WithLogger(logger)}, opts...)
	}
	r, err := New(snap, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{router: r}, nil
}

// Complete executes a completion for the given role.
func (c *Client) Complete(ctx context.Context, role string, messages []providers.Message, overrides *routing.Overrides) (*providers.Response, error) {
	return c.router.Complete(ctx, role, messages, overrides)
}

// Router exposes the underlying router for advanced use.
func (c *Client) Router() *Router {
	return c.router
}
