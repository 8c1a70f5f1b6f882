package collect

import (
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"ldnews/internal/config"
	"ldnews/internal/logger"
	"ldnews/internal/models"
)

// SourceRSS is the source label recorded on entries collected from feeds.
const SourceRSS = "RSS"

// RSSCollector collects entries from Google Alerts and other RSS feeds.
type RSSCollector struct {
	parser *gofeed.Parser
	logger *logger.Logger
	feeds  []config.FeedConfig
	window time.Duration
}

// NewRSSCollector creates a collector for the given feeds.
func NewRSSCollector(feeds []config.FeedConfig, window time.Duration, timeout time.Duration, log *logger.Logger) *RSSCollector {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	return &RSSCollector{
		parser: parser,
		logger: log,
		feeds:  feeds,
		window: window,
	}
}

// Collect parses all feeds and returns entries published inside the window.
// A feed that fails to parse is logged and skipped, never fatal.
func (c *RSSCollector) Collect() []models.Entry {
	var entries []models.Entry

	for _, feed := range c.feeds {
		feedEntries, err := c.collectFeed(feed)
		if err != nil {
			c.logger.Error("failed to parse feed", "feed", feed.DisplayName(), "error", err)

			continue
		}

		c.logger.Info("parsed feed", "feed", feed.DisplayName(), "entries", len(feedEntries))
		entries = append(entries, feedEntries...)
	}

	return entries
}

func (c *RSSCollector) collectFeed(feed config.FeedConfig) ([]models.Entry, error) {
	result, err := c.parser.ParseURL(feed.URL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cutoff := now.Add(-c.window)

	var entries []models.Entry

	for _, item := range result.Items {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}

		// Entries with no parseable published time cannot be windowed; skip them.
		if published == nil {
			c.logger.Debug("skipping entry without published time", "title", item.Title)

			continue
		}

		if published.Before(cutoff) {
			continue
		}

		entries = append(entries, models.Entry{
			CollectedAt: now,
			Source:      SourceRSS,
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			Published:   published.Format(time.RFC3339),
		})
	}

	return entries, nil
}
