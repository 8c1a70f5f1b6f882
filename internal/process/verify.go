package process

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ldnews/pkg/utils"
)

// ErrVerifyStatus indicates the page fetch returned a non-OK status.
var ErrVerifyStatus = errors.New("verification fetch returned unexpected status")

// maxPageBytes caps how much of a page is read during verification.
const maxPageBytes = 2 * 1024 * 1024

// chromeSelectors match page furniture removed before judging content.
const chromeSelectors = "script, style, noscript, nav, aside, header, footer, form, iframe, .sidebar, .related, .comments, .share"

// contentSelectors are tried in order when locating the main article body.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	"#content",
	".post-content",
	".article-body",
	".entry-content",
	".story-body",
}

// minContentRunes is the smallest extraction still considered an article
// body; anything shorter falls through to the next selector.
const minContentRunes = 200

// Verifier fetches an entry's page and judges whether a keyword appears in
// the actual article body rather than sidebar or related-content chrome.
type Verifier struct {
	client  *http.Client
	matcher *KeywordMatcher
}

// NewVerifier creates a verifier using the given matcher.
func NewVerifier(matcher *KeywordMatcher, timeout time.Duration) *Verifier {
	return &Verifier{
		client: &http.Client{
			Timeout: timeout,
		},
		matcher: matcher,
	}
}

// Verify fetches the URL and checks the extracted main content for keywords.
// checked is false when the page could not be fetched or parsed; callers
// treat that as inconclusive and keep the entry.
func (v *Verifier) Verify(pageURL string) (relevant, checked bool, err error) {
	body, err := v.fetch(pageURL)
	if err != nil {
		return false, false, err
	}

	content, err := ExtractMainContent(body)
	if err != nil {
		return false, false, err
	}

	if content == "" {
		return false, false, nil
	}

	_, matched := v.matcher.Match(content)

	return matched, true, nil
}

func (v *Verifier) fetch(pageURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = utils.BuildHeaders(map[string]string{
		"Accept": "text/html,application/xhtml+xml",
	})

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", ErrVerifyStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	return string(body), nil
}

// ExtractMainContent pulls the main article text out of an HTML page. Page
// chrome is removed first; the content selectors are tried in order and the
// first sufficiently long extraction wins, falling back to the full body.
func ExtractMainContent(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(chromeSelectors).Remove()

	for _, selector := range contentSelectors {
		selection := doc.Find(selector).First()
		if selection.Length() == 0 {
			continue
		}

		text := utils.NormalizeWhitespace(selection.Text())
		if len([]rune(text)) >= minContentRunes {
			return text, nil
		}
	}

	return utils.NormalizeWhitespace(doc.Find("body").Text()), nil
}
