// Package summarize generates entry titles, summaries, and content tags
// using a language-model client.
package summarize

import "context"

// Client is the minimal completion surface the enricher needs. Both the
// OpenAI-compatible HTTP client and the Gemini client implement it.
type Client interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}
