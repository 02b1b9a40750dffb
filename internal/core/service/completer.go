package service

import "context"

// Completer abstracts the LLM completion provider (OpenRouter behind an
// HTTP client in production). The auth core has no dependency on it; only
// the chat and recommendation services consume completions, and both fall
// back to deterministic replies when the provider errors.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
