package process

import (
	"time"

	"ldnews/internal/logger"
	"ldnews/internal/models"
)

// Processor runs the relevance and normalization pipeline over one batch of
// collected entries.
type Processor struct {
	matcher  *KeywordMatcher
	verifier *Verifier
	logger   *logger.Logger
}

// Options controls processor behavior.
type Options struct {
	Keywords      []string
	WholeWord     bool
	VerifyContent bool
	FetchTimeout  time.Duration
}

// NewProcessor creates a processor for the given options.
func NewProcessor(opts Options, log *logger.Logger) *Processor {
	matcher := NewKeywordMatcher(opts.Keywords, opts.WholeWord)

	var verifier *Verifier
	if opts.VerifyContent {
		timeout := opts.FetchTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		verifier = NewVerifier(matcher, timeout)
	}

	return &Processor{
		matcher:  matcher,
		verifier: verifier,
		logger:   log,
	}
}

// Process filters entries by keyword relevance, normalizes the survivors,
// and optionally verifies relevance against the fetched article body.
func (p *Processor) Process(entries []models.Entry) []models.Entry {
	relevant := p.filter(entries)
	p.logger.Info("filtered relevant entries", "relevant", len(relevant), "total", len(entries))

	normalized := make([]models.Entry, 0, len(relevant))
	for _, entry := range relevant {
		normalized = append(normalized, p.Normalize(entry))
	}

	if p.verifier == nil {
		return normalized
	}

	verified := p.verify(normalized)
	p.logger.Info("verified entries against article content", "kept", len(verified), "checked", len(normalized))

	return verified
}

func (p *Processor) filter(entries []models.Entry) []models.Entry {
	var relevant []models.Entry

	for _, entry := range entries {
		if _, ok := p.matcher.Match(entry.Text()); ok {
			relevant = append(relevant, entry)
		}
	}

	return relevant
}

// Normalize cleans one entry in place: HTML stripped from title and
// description, published timestamp re-emitted as RFC3339, URL canonicalized.
func (p *Processor) Normalize(entry models.Entry) models.Entry {
	entry.Title = CleanHTML(entry.Title)
	entry.Description = CleanHTML(entry.Description)
	entry.Published = NormalizePublished(entry.Published)
	entry.URL = CanonicalURL(entry.URL)

	return entry
}

// verify drops entries whose fetched article body contains no keyword.
// Inconclusive checks (unreachable or unparseable pages) keep the entry:
// verification can only confirm, never reject on a failed fetch.
func (p *Processor) verify(entries []models.Entry) []models.Entry {
	kept := make([]models.Entry, 0, len(entries))

	for _, entry := range entries {
		if entry.URL == "" {
			kept = append(kept, entry)

			continue
		}

		relevant, checked, err := p.verifier.Verify(entry.URL)
		if err != nil {
			p.logger.Warn("content verification inconclusive", "url", entry.URL, "error", err)
			kept = append(kept, entry)

			continue
		}

		if !checked || relevant {
			kept = append(kept, entry)

			continue
		}

		p.logger.Info("dropping entry, keywords not in article body", "url", entry.URL, "title", entry.Title)
	}

	return kept
}
