package summarize

import (
	"context"
	"fmt"
	"strings"

	"ldnews/internal/logger"
	"ldnews/internal/models"
)

// Content tags assigned to enriched entries.
const (
	TagArticle  = "Article"
	TagXPost    = "X Post"
	TagLinkedIn = "LinkedIn"
)

const (
	systemPrompt = "You are a news editor creating titles and concise summaries for Delaware business news."

	titleMaxTokens   = 50
	summaryMaxTokens = 150

	// Input truncation limits, in runes
	titleContextRunes   = 500
	summaryContextRunes = 1000

	// Fallback summary length when the model is unavailable
	fallbackSummaryRunes = 200

	minUsableTitleLen = 10
)

// Enricher assigns a tag, title, and summary to each entry. Model failures
// never drop an entry; they fall back to the raw text.
type Enricher struct {
	client        Client
	logger        *logger.Logger
	fallbackTitle string
}

// NewEnricher creates an enricher. A nil client skips model calls entirely
// and uses fallbacks, which keeps the pipeline usable without an API key.
func NewEnricher(client Client, fallbackTitle string, log *logger.Logger) *Enricher {
	if fallbackTitle == "" {
		fallbackTitle = "Delaware Business News"
	}

	return &Enricher{
		client:        client,
		logger:        log,
		fallbackTitle: fallbackTitle,
	}
}

// Enrich processes every entry in the batch.
func (e *Enricher) Enrich(ctx context.Context, entries []models.Entry) []models.Entry {
	enriched := make([]models.Entry, 0, len(entries))

	for _, entry := range entries {
		entry.Tag = DetermineTag(entry.Source)
		entry.Title = e.title(ctx, entry)
		entry.Summary = e.summary(ctx, entry)

		enriched = append(enriched, entry)
	}

	return enriched
}

// title keeps a usable existing title, otherwise asks the model for one.
func (e *Enricher) title(ctx context.Context, entry models.Entry) string {
	existing := strings.TrimSpace(entry.Title)
	if len(existing) > minUsableTitleLen && !strings.HasPrefix(existing, "http") {
		return existing
	}

	if e.client == nil {
		if existing != "" {
			return existing
		}

		return e.fallbackTitle
	}

	prompt := fmt.Sprintf(
		"Generate a clear, concise title (max 80 characters) for this content about Delaware business/corporate news:\n\nContent: %s\n\nTitle:",
		truncateRunes(entry.Description, titleContextRunes),
	)

	title, err := e.client.Complete(ctx, systemPrompt, prompt, titleMaxTokens)
	if err != nil || title == "" {
		if err != nil {
			e.logger.Error("failed to generate title", "url", entry.URL, "error", err)
		}

		if existing != "" {
			return existing
		}

		return e.fallbackTitle
	}

	return title
}

// summary asks the model for 1-3 sentences, falling back to a truncation of
// the description.
func (e *Enricher) summary(ctx context.Context, entry models.Entry) string {
	content := entry.Description
	if content == "" {
		content = entry.Title
	}

	if e.client != nil {
		prompt := fmt.Sprintf(
			"Summarize this Delaware business/corporate news in 1-3 clear, concise sentences:\n\nContent: %s\n\nSummary:",
			truncateRunes(content, summaryContextRunes),
		)

		summary, err := e.client.Complete(ctx, systemPrompt, prompt, summaryMaxTokens)
		if err == nil && summary != "" {
			return summary
		}

		if err != nil {
			e.logger.Error("failed to generate summary", "url", entry.URL, "error", err)
		}
	}

	if len([]rune(content)) > fallbackSummaryRunes {
		return truncateRunes(content, fallbackSummaryRunes) + "..."
	}

	return content
}

// DetermineTag maps a source label to a content tag.
func DetermineTag(source string) string {
	lowered := strings.ToLower(source)

	switch {
	case strings.Contains(lowered, "twitter"), strings.Contains(lowered, "x post"):
		return TagXPost
	case strings.Contains(lowered, "linkedin"):
		return TagLinkedIn
	default:
		return TagArticle
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}
