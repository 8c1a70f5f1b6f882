// Package deliver sends the formatted digest over the configured channels.
package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ldnews/internal/logger"
	"ldnews/internal/models"
)

// Slack delivery errors.
var (
	ErrSlackMissingToken = errors.New("slack bot token is required")
	ErrSlackAPI          = errors.New("slack API call failed")
)

// DefaultSlackAPIURL is the chat.postMessage endpoint.
const DefaultSlackAPIURL = "https://slack.com/api/chat.postMessage"

// tagEmoji maps content tags to the emoji shown in context blocks.
var tagEmoji = map[string]string{
	"Article":  "📄",
	"X Post":   "🐦",
	"LinkedIn": "💼",
	"RSS":      "📡",
}

// SlackSender posts the digest to a Slack channel as a single Block Kit
// message.
type SlackSender struct {
	httpClient *http.Client
	logger     *logger.Logger
	apiURL     string
	token      string
	channel    string
}

// NewSlackSender creates a sender for the given channel.
func NewSlackSender(token, channel string, log *logger.Logger) (*SlackSender, error) {
	if token == "" {
		return nil, ErrSlackMissingToken
	}

	return &SlackSender{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log,
		apiURL:     DefaultSlackAPIURL,
		token:      token,
		channel:    channel,
	}, nil
}

// SetAPIURL overrides the API endpoint (useful for testing).
func (s *SlackSender) SetAPIURL(apiURL string) {
	s.apiURL = apiURL
}

// Block Kit message structures, limited to the shapes this sender emits.

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type accessory struct {
	Text     *textObject `json:"text,omitempty"`
	Type     string      `json:"type"`
	URL      string      `json:"url,omitempty"`
	ActionID string      `json:"action_id,omitempty"`
}

type block struct {
	Text      *textObject  `json:"text,omitempty"`
	Accessory *accessory   `json:"accessory,omitempty"`
	Type      string       `json:"type"`
	Elements  []textObject `json:"elements,omitempty"`
}

type postMessageRequest struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
	Blocks  []block `json:"blocks"`
}

type postMessageResponse struct {
	Error string `json:"error"`
	OK    bool   `json:"ok"`
}

// SendDigest posts the digest in one message.
func (s *SlackSender) SendDigest(ctx context.Context, d models.Digest) error {
	var blocks []block
	if d.TotalEntries == 0 {
		blocks = s.emptyDigestBlocks(d)
	} else {
		blocks = s.fullDigestBlocks(d)
	}

	request := postMessageRequest{
		Channel: s.channel,
		Text:    fmt.Sprintf("📰 Leave Delaware Daily Digest - %d items", d.TotalEntries),
		Blocks:  blocks,
	}

	if err := s.postMessage(ctx, request); err != nil {
		return err
	}

	s.logger.Info("sent digest to slack", "channel", s.channel, "entries", d.TotalEntries)

	return nil
}

func (s *SlackSender) postMessage(ctx context.Context, request postMessageRequest) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read slack response: %w", err)
	}

	var parsed postMessageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("failed to parse slack response: %w", err)
	}

	if !parsed.OK {
		return fmt.Errorf("%w: %s", ErrSlackAPI, parsed.Error)
	}

	return nil
}

func (s *SlackSender) emptyDigestBlocks(d models.Digest) []block {
	return []block{
		{
			Type: "header",
			Text: &textObject{Type: "plain_text", Text: "📰 Leave Delaware Daily Digest"},
		},
		{
			Type: "section",
			Text: &textObject{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Date:* %s\n*Status:* No relevant news found today", displayDate(d.Date)),
			},
		},
		{Type: "divider"},
	}
}

func (s *SlackSender) fullDigestBlocks(d models.Digest) []block {
	blocks := []block{
		{
			Type: "header",
			Text: &textObject{Type: "plain_text", Text: "📰 Leave Delaware Daily Digest"},
		},
		{
			Type: "section",
			Text: &textObject{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*Date:* %s\n*Total Items:* %d relevant news items found", displayDate(d.Date), d.TotalEntries),
			},
		},
		{Type: "divider"},
	}

	for i, entry := range d.Entries {
		entryBlock := block{
			Type: "section",
			Text: &textObject{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%d. %s*\n\n%s", i+1, entry.Title, entry.Summary),
			},
		}

		if entry.URL != "" {
			entryBlock.Accessory = &accessory{
				Type:     "button",
				Text:     &textObject{Type: "plain_text", Text: "Read More"},
				URL:      entry.URL,
				ActionID: fmt.Sprintf("read_more_%d", i+1),
			}
		}

		contextBlock := block{
			Type: "context",
			Elements: []textObject{
				{Type: "mrkdwn", Text: fmt.Sprintf("%s *%s*", emojiFor(entry.Tag), entry.Tag)},
			},
		}

		if entry.Source != "" {
			contextBlock.Elements = append(contextBlock.Elements, textObject{
				Type: "mrkdwn",
				Text: "• Source: " + entry.Source,
			})
		}

		if entry.Author != "" {
			contextBlock.Elements = append(contextBlock.Elements, textObject{
				Type: "mrkdwn",
				Text: "• Author: " + entry.Author,
			})
		}

		blocks = append(blocks, entryBlock, contextBlock)

		// Divider between entries, not after the last one
		if i < len(d.Entries)-1 {
			blocks = append(blocks, block{Type: "divider"})
		}
	}

	return blocks
}

func emojiFor(tag string) string {
	if emoji, ok := tagEmoji[tag]; ok {
		return emoji
	}

	return "📰"
}

// displayDate reformats the digest date for display, falling back to the raw
// value.
func displayDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}

	return t.Format("January 2, 2006")
}
