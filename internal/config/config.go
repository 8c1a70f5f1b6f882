// Package config provides configuration management for the digest pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources                = errors.New("at least one feed or phantom is required")
	ErrNoEnabledSources         = errors.New("at least one feed or phantom must be enabled")
	ErrFeedMissingURL           = errors.New("feed url is required")
	ErrPhantomMissingAgentID    = errors.New("phantom agent_id is required")
	ErrPhantomInvalidKind       = errors.New("phantom kind must be 'twitter' or 'linkedin'")
	ErrNoKeywords               = errors.New("at least one keyword is required")
	ErrInvalidWindowHours       = errors.New("pipeline.window_hours must be at least 1")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidProvider          = errors.New("summarizer.provider must be one of: openai, gemini, none")
	ErrSlackMissingChannel      = errors.New("delivery.slack.channel is required when slack is enabled")
	ErrGmailMissingSender       = errors.New("delivery.gmail.sender is required when gmail is enabled")
	ErrNoDeliveryChannels       = errors.New("at least one delivery channel must be enabled")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PipelineConfig contains collection and filtering settings.
type PipelineConfig struct {
	Feeds       []FeedConfig    `yaml:"feeds"`
	Phantoms    []PhantomConfig `yaml:"phantoms"`
	Keywords    []string        `yaml:"keywords"`
	Filter      FilterConfig    `yaml:"filter"`
	Retry       RetryPolicy     `yaml:"retry"`
	WindowHours int             `yaml:"window_hours"`
}

// FeedConfig represents one RSS source (typically a Google Alerts feed).
type FeedConfig struct {
	URL     string `yaml:"url"`
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// PhantomConfig represents one PhantomBuster agent whose output is collected.
type PhantomConfig struct {
	AgentID string `yaml:"agent_id"`
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Enabled bool   `yaml:"enabled"`
}

// FilterConfig controls relevance filtering behavior.
type FilterConfig struct {
	WholeWord     bool `yaml:"whole_word"`
	VerifyContent bool `yaml:"verify_content"`
}

// RetryPolicy defines retry behavior for collection HTTP calls.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// SummarizerConfig selects and tunes the language-model client.
type SummarizerConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	BaseURL       string `yaml:"base_url"`
	FallbackTitle string `yaml:"fallback_title"`
}

// DeliveryConfig contains per-channel delivery settings.
type DeliveryConfig struct {
	Slack SlackConfig `yaml:"slack"`
	Gmail GmailConfig `yaml:"gmail"`
}

// SlackConfig configures the Slack channel delivery.
type SlackConfig struct {
	Channel string `yaml:"channel"`
	Enabled bool   `yaml:"enabled"`
}

// GmailConfig configures the Gmail delivery.
type GmailConfig struct {
	Sender          string `yaml:"sender"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	Enabled         bool   `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	if c.Pipeline.WindowHours == 0 {
		c.Pipeline.WindowHours = 24
	}

	if c.Pipeline.Retry.MaxAttempts == 0 {
		c.Pipeline.Retry = RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
		}
	}

	if c.Summarizer.Provider == "" {
		c.Summarizer.Provider = "openai"
	}

	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gpt-4"
	}

	if c.Summarizer.BaseURL == "" {
		c.Summarizer.BaseURL = "https://api.openai.com"
	}

	if c.Delivery.Gmail.CredentialsFile == "" {
		c.Delivery.Gmail.CredentialsFile = "credentials.json"
	}

	if c.Delivery.Gmail.TokenFile == "" {
		c.Delivery.Gmail.TokenFile = "token.json"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Pipeline.Feeds) == 0 && len(c.Pipeline.Phantoms) == 0 {
		return ErrNoSources
	}

	enabledCount := 0

	for i, feed := range c.Pipeline.Feeds {
		if feed.URL == "" {
			return fmt.Errorf("%w: feed[%d]", ErrFeedMissingURL, i)
		}

		if feed.Enabled {
			enabledCount++
		}
	}

	for i, phantom := range c.Pipeline.Phantoms {
		if phantom.AgentID == "" {
			return fmt.Errorf("%w: phantom[%d]", ErrPhantomMissingAgentID, i)
		}

		if phantom.Kind != "twitter" && phantom.Kind != "linkedin" {
			return fmt.Errorf("%w: phantom[%d] has kind %q", ErrPhantomInvalidKind, i, phantom.Kind)
		}

		if phantom.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if len(c.Pipeline.Keywords) == 0 {
		return ErrNoKeywords
	}

	if c.Pipeline.WindowHours < 1 {
		return ErrInvalidWindowHours
	}

	// Validate retry policy
	if c.Pipeline.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Pipeline.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Pipeline.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Pipeline.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	// Validate summarizer config
	switch c.Summarizer.Provider {
	case "openai", "gemini", "none":
	default:
		return ErrInvalidProvider
	}

	// Validate delivery config
	if !c.Delivery.Slack.Enabled && !c.Delivery.Gmail.Enabled {
		return ErrNoDeliveryChannels
	}

	if c.Delivery.Slack.Enabled && c.Delivery.Slack.Channel == "" {
		return ErrSlackMissingChannel
	}

	if c.Delivery.Gmail.Enabled && c.Delivery.Gmail.Sender == "" {
		return ErrGmailMissingSender
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// GetEnabledFeeds returns only enabled RSS feeds.
func (c *Config) GetEnabledFeeds() []FeedConfig {
	var enabled []FeedConfig

	for _, feed := range c.Pipeline.Feeds {
		if feed.Enabled {
			enabled = append(enabled, feed)
		}
	}

	return enabled
}

// GetEnabledPhantoms returns only enabled PhantomBuster agents.
func (c *Config) GetEnabledPhantoms() []PhantomConfig {
	var enabled []PhantomConfig

	for _, phantom := range c.Pipeline.Phantoms {
		if phantom.Enabled {
			enabled = append(enabled, phantom)
		}
	}

	return enabled
}

// Window returns the collection cutoff window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Pipeline.WindowHours) * time.Hour
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// DisplayName returns the feed name, or its URL when no name is set.
func (f *FeedConfig) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}

	return f.URL
}

// SourceLabel returns the source string recorded on entries from this agent.
func (p *PhantomConfig) SourceLabel() string {
	if p.Kind == "linkedin" {
		return "LinkedIn"
	}

	name := p.Name
	if name == "" {
		name = p.AgentID
	}

	return fmt.Sprintf("Twitter (%s)", name)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	channels := make([]string, 0, 2)
	if c.Delivery.Slack.Enabled {
		channels = append(channels, "slack")
	}

	if c.Delivery.Gmail.Enabled {
		channels = append(channels, "gmail")
	}

	return fmt.Sprintf(
		"Config{Feeds: %d, Phantoms: %d, Keywords: %d, Delivery: %s}",
		len(c.Pipeline.Feeds),
		len(c.Pipeline.Phantoms),
		len(c.Pipeline.Keywords),
		strings.Join(channels, "+"),
	)
}
