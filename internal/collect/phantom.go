package collect

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ldnews/internal/config"
	"ldnews/internal/logger"
	"ldnews/internal/models"
	"ldnews/internal/process"
	"ldnews/pkg/utils"
)

// DefaultPhantomBaseURL is the PhantomBuster API v2 endpoint.
const DefaultPhantomBaseURL = "https://api.phantombuster.com/api/v2"

// titleWidth caps how much of a post's text becomes the entry title.
const titleWidth = 100

// Field-name fallbacks for the heterogeneous agent output formats.
var (
	textFields    = []string{"text", "title", "content"}
	dateFields    = []string{"timestamp", "date", "createdAt", "postTimestamp"}
	urlFields     = []string{"url", "link", "postUrl", "tweetUrl", "postLink"}
	twitterAuthor = []string{"handle", "username", "screenName"}
	linkedAuthor  = []string{"author", "profileName", "profileUrl"}
)

// PhantomClient collects scraped social-media posts from PhantomBuster
// agent outputs.
type PhantomClient struct {
	fetcher  *Fetcher
	logger   *logger.Logger
	baseURL  string
	apiKey   string
	phantoms []config.PhantomConfig
	window   time.Duration
}

// NewPhantomClient creates a client for the given agents.
func NewPhantomClient(phantoms []config.PhantomConfig, apiKey string, window time.Duration, fetcher *Fetcher, log *logger.Logger) *PhantomClient {
	return &PhantomClient{
		fetcher:  fetcher,
		logger:   log,
		baseURL:  DefaultPhantomBaseURL,
		apiKey:   apiKey,
		phantoms: phantoms,
		window:   window,
	}
}

// SetBaseURL overrides the API endpoint (useful for testing).
func (c *PhantomClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// CollectAll fetches and parses the output of every configured agent.
// A failing agent is logged and skipped, never fatal.
func (c *PhantomClient) CollectAll() []models.Entry {
	var entries []models.Entry

	for _, phantom := range c.phantoms {
		agentEntries, err := c.collectAgent(phantom)
		if err != nil {
			c.logger.Error("failed to collect phantom output", "agent", phantom.SourceLabel(), "error", err)

			continue
		}

		c.logger.Info("collected phantom output", "agent", phantom.SourceLabel(), "entries", len(agentEntries))
		entries = append(entries, agentEntries...)
	}

	return entries
}

func (c *PhantomClient) collectAgent(phantom config.PhantomConfig) ([]models.Entry, error) {
	raw, err := c.fetchOutput(phantom.AgentID)
	if err != nil {
		return nil, err
	}

	rows, err := parseRows(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse agent output: %w", err)
	}

	return c.rowsToEntries(rows, phantom), nil
}

// fetchOutput retrieves the latest agent output. Some PhantomBuster plans
// reject the header-based key with a 400; those are retried with the key as
// a query parameter.
func (c *PhantomClient) fetchOutput(agentID string) (string, error) {
	endpoint := fmt.Sprintf("%s/agents/fetch-output?id=%s", c.baseURL, url.QueryEscape(agentID))

	body, statusCode, _, err := c.fetcher.FetchWithMetrics(endpoint, map[string]string{
		"X-Phantombuster-Key-1": c.apiKey,
	})
	if err == nil {
		return body, nil
	}

	if statusCode != http.StatusBadRequest {
		return "", err
	}

	c.logger.Warn("header auth rejected, retrying with key query parameter", "agent", agentID)

	altEndpoint := fmt.Sprintf("%s&key=%s", endpoint, url.QueryEscape(c.apiKey))

	body, _, _, err = c.fetcher.FetchWithMetrics(altEndpoint, nil)
	if err != nil {
		return "", err
	}

	return body, nil
}

// parseRows decodes an agent output body, which may be a JSON array or CSV
// with a header row, into generic string maps.
func parseRows(raw string) ([]map[string]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		return parseJSONRows(trimmed)
	}

	return parseCSVRows(trimmed)
}

func parseJSONRows(raw string) ([]map[string]string, error) {
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(decoded))

	for _, obj := range decoded {
		row := make(map[string]string, len(obj))

		for key, value := range obj {
			switch v := value.(type) {
			case string:
				row[key] = v
			case float64:
				row[key] = fmt.Sprintf("%v", v)
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func parseCSVRows(raw string) ([]map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)

	for _, record := range records[1:] {
		row := make(map[string]string, len(header))

		for i, field := range record {
			if i < len(header) {
				row[header[i]] = field
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (c *PhantomClient) rowsToEntries(rows []map[string]string, phantom config.PhantomConfig) []models.Entry {
	now := time.Now()
	cutoff := now.Add(-c.window)

	authorFields := twitterAuthor
	if phantom.Kind == "linkedin" {
		authorFields = linkedAuthor
	}

	var entries []models.Entry

	for _, row := range rows {
		published, ok := process.ParsePublished(pick(row, dateFields...))
		if !ok || published.Before(cutoff) {
			continue
		}

		text := pick(row, textFields...)
		if text == "" {
			continue
		}

		entries = append(entries, models.Entry{
			CollectedAt: now,
			Source:      phantom.SourceLabel(),
			Title:       utils.Truncate(text, titleWidth),
			Description: text,
			URL:         pick(row, urlFields...),
			Published:   published.Format(time.RFC3339),
			Author:      pick(row, authorFields...),
		})
	}

	return entries
}

// pick returns the first non-empty value among the candidate field names.
func pick(row map[string]string, fields ...string) string {
	for _, field := range fields {
		if value := strings.TrimSpace(row[field]); value != "" {
			return value
		}
	}

	return ""
}
