package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Secrets holds credentials read from the environment. They are kept out of
// the YAML file so the config can be committed.
type Secrets struct {
	PhantomBusterKey string
	OpenAIKey        string
	GeminiKey        string
	SlackToken       string
	GmailRecipients  []string
}

// LoadSecrets reads secrets from the environment, loading a .env file first
// when one exists.
func LoadSecrets() *Secrets {
	_ = godotenv.Load()

	return &Secrets{
		PhantomBusterKey: getEnv("PHANTOMBUSTER_API_KEY", ""),
		OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
		GeminiKey:        getEnv("GEMINI_API_KEY", ""),
		SlackToken:       getEnv("SLACK_BOT_TOKEN", ""),
		GmailRecipients:  splitRecipients(getEnv("GMAIL_RECIPIENTS", "")),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func splitRecipients(raw string) []string {
	var recipients []string

	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}

	return recipients
}
