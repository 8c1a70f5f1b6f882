package deliver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"ldnews/internal/logger"
	"ldnews/internal/models"
)

// Gmail delivery errors.
var (
	ErrNoRecipients = errors.New("at least one recipient is required")
	ErrGmailSend    = errors.New("gmail send failed")
)

const mimeBoundary = "=_ldnews_alt"

// GmailSender emails the digest through the Gmail API as a
// multipart/alternative message (text + HTML).
type GmailSender struct {
	service    *gmail.Service
	logger     *logger.Logger
	sender     string
	recipients []string
}

// NewGmailSender authenticates against the Gmail API using the OAuth2
// credentials and token files and creates a sender.
func NewGmailSender(ctx context.Context, credentialsFile, tokenFile, sender string, recipients []string, log *logger.Logger) (*GmailSender, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	credentials, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(credentials, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	token, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &GmailSender{
		service:    service,
		logger:     log,
		sender:     sender,
		recipients: recipients,
	}, nil
}

// NewGmailSenderWithService creates a sender around an existing service
// (useful for testing).
func NewGmailSenderWithService(service *gmail.Service, sender string, recipients []string, log *logger.Logger) *GmailSender {
	return &GmailSender{
		service:    service,
		logger:     log,
		sender:     sender,
		recipients: recipients,
	}
}

func readToken(tokenFile string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	return &token, nil
}

// SendDigest emails the digest to every recipient. The first failure aborts
// the remaining sends.
func (s *GmailSender) SendDigest(ctx context.Context, d models.Digest) error {
	subject := fmt.Sprintf("Leave Delaware Daily Digest - %s", d.Date)

	for _, recipient := range s.recipients {
		raw := BuildMIMEMessage(s.sender, recipient, subject, d.Text, d.HTML)

		message := &gmail.Message{
			Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
		}

		if _, err := s.service.Users.Messages.Send("me", message).Context(ctx).Do(); err != nil {
			return fmt.Errorf("%w: recipient %s: %v", ErrGmailSend, recipient, err)
		}

		s.logger.Info("sent digest email", "recipient", recipient)
	}

	return nil
}

// BuildMIMEMessage assembles a multipart/alternative RFC 2822 message with a
// plain-text and an HTML part.
func BuildMIMEMessage(from, to, subject, textBody, htmlBody string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n\r\n")

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return b.String()
}
