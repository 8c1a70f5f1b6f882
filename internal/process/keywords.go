package process

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// KeywordMatcher decides whether a piece of text is relevant to the
// configured keywords. Matching is case-insensitive; in whole-word mode a
// keyword only matches on word boundaries, so "tax" does not hit "taxonomy".
type KeywordMatcher struct {
	keywords  []string
	tokenized [][]string
	wholeWord bool
}

// NewKeywordMatcher creates a matcher over the given keywords.
func NewKeywordMatcher(keywords []string, wholeWord bool) *KeywordMatcher {
	m := &KeywordMatcher{
		keywords:  make([]string, 0, len(keywords)),
		tokenized: make([][]string, 0, len(keywords)),
		wholeWord: wholeWord,
	}

	for _, keyword := range keywords {
		lowered := strings.ToLower(strings.TrimSpace(keyword))
		if lowered == "" {
			continue
		}

		m.keywords = append(m.keywords, lowered)
		m.tokenized = append(m.tokenized, tokenize(lowered))
	}

	return m
}

// Match returns the first keyword found in the text, and whether any matched.
func (m *KeywordMatcher) Match(text string) (string, bool) {
	haystack := strings.ToLower(text)

	if !m.wholeWord {
		for _, keyword := range m.keywords {
			if strings.Contains(haystack, keyword) {
				return keyword, true
			}
		}

		return "", false
	}

	tokens := tokenize(haystack)

	for i, keywordTokens := range m.tokenized {
		if len(keywordTokens) == 0 {
			continue
		}

		if containsSequence(tokens, keywordTokens) {
			return m.keywords[i], true
		}
	}

	return "", false
}

// tokenize segments text into lowercase word tokens, dropping whitespace and
// punctuation segments.
func tokenize(text string) []string {
	var tokens []string

	iter := words.FromString(text)
	for iter.Next() {
		token := iter.Value()
		if isWord(token) {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

// isWord reports whether a segment contains at least one letter or digit.
func isWord(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}

	return false
}

// containsSequence reports whether needle appears as a contiguous run in
// haystack.
func containsSequence(haystack, needle []string) bool {
	if len(needle) > len(haystack) {
		return false
	}

	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true

		for j, token := range needle {
			if haystack[i+j] != token {
				match = false

				break
			}
		}

		if match {
			return true
		}
	}

	return false
}
