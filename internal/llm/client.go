package llm

import (
	"context"
)

// Client is a minimal chat-completion surface. The analyzer is the only consumer;
// it always sends one system message and one user message.
type Client interface {
	Generate(ctx context.Context, system string, prompt string) (string, error)
}
