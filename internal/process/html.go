package process

import (
	"regexp"
	"strings"

	"ldnews/pkg/utils"
)

// Package-level compiled regex to avoid recompiling on every call.
var reHTMLTags = regexp.MustCompile(`<[^>]+>`)

// htmlEntities maps the entities that actually show up in feed snippets.
var htmlEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#39;":  "'",
	"&nbsp;": " ",
}

// CleanHTML strips markup from a text snippet: tags removed, common entities
// decoded, whitespace collapsed.
func CleanHTML(text string) string {
	if text == "" {
		return text
	}

	clean := reHTMLTags.ReplaceAllString(text, "")

	for entity, replacement := range htmlEntities {
		clean = strings.ReplaceAll(clean, entity, replacement)
	}

	return utils.NormalizeWhitespace(clean)
}
