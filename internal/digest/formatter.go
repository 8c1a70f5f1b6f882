// Package digest assembles and formats the final output for one pipeline run.
package digest

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"ldnews/internal/models"
)

const htmlStyle = `body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.header { background-color: #f4f4f4; padding: 20px; border-radius: 5px; margin-bottom: 20px; }
.entry { margin-bottom: 25px; padding: 15px; border-left: 4px solid #007cba; background-color: #f9f9f9; }
.tag { background-color: #007cba; color: white; padding: 3px 8px; border-radius: 3px; font-size: 12px; }
.title { font-weight: bold; margin: 10px 0 5px 0; color: #2c3e50; }
.summary { margin: 10px 0; }
.url { margin-top: 10px; }
.url a { color: #007cba; text-decoration: none; }
.url a:hover { text-decoration: underline; }`

// Formatter builds the text and HTML digest forms.
type Formatter struct {
	name string
	now  func() time.Time
}

// NewFormatter creates a formatter. name heads the digest
// (e.g. "Leave Delaware Daily Digest").
func NewFormatter(name string) *Formatter {
	if name == "" {
		name = "Leave Delaware Daily Digest"
	}

	return &Formatter{
		name: name,
		now:  time.Now,
	}
}

// Format sorts entries newest first and assembles the digest. An empty batch
// produces the empty-digest forms.
func (f *Formatter) Format(entries []models.Entry) models.Digest {
	now := f.now()

	if len(entries) == 0 {
		return models.Digest{
			Date:    now.Format("2006-01-02"),
			Text:    f.emptyText(now),
			HTML:    f.emptyHTML(now),
			Entries: []models.Entry{},
		}
	}

	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)

	// RFC3339 strings order lexicographically; empty Published sorts last.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published > sorted[j].Published
	})

	return models.Digest{
		Date:         now.Format("2006-01-02"),
		TotalEntries: len(sorted),
		Text:         f.formatText(sorted, now),
		HTML:         f.formatHTML(sorted, now),
		Entries:      sorted,
	}
}

// formatText renders the Slack mrkdwn form.
func (f *Formatter) formatText(entries []models.Entry, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📰 *%s - %s*\n", f.name, now.Format("January 2, 2006"))
	fmt.Fprintf(&b, "Found %d relevant items today\n\n", len(entries))

	lines := make([]string, 0, len(entries))

	for i, entry := range entries {
		var e strings.Builder

		fmt.Fprintf(&e, "%d. *[%s]* %s\n", i+1, entry.Tag, entry.Title)
		fmt.Fprintf(&e, "   %s\n", entry.Summary)
		fmt.Fprintf(&e, "   🔗 %s\n", entry.URL)

		lines = append(lines, e.String())
	}

	b.WriteString(strings.Join(lines, "\n"))

	return b.String()
}

// formatHTML renders the email form.
func (f *Formatter) formatHTML(entries []models.Entry, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<html>\n<head>\n<style>\n%s\n</style>\n</head>\n<body>\n", htmlStyle)
	fmt.Fprintf(&b, `<div class="header">
<h2>📰 %s</h2>
<p><strong>Date:</strong> %s</p>
<p><strong>Total Items:</strong> %d</p>
</div>
`, html.EscapeString(f.name), now.Format("January 2, 2006"), len(entries))

	for i, entry := range entries {
		fmt.Fprintf(&b, `<div class="entry">
<span class="tag">%s</span>
<div class="title">%d. %s</div>
<div class="summary">%s</div>
<div class="url"><a href="%s" target="_blank">Read More →</a></div>
</div>
`,
			html.EscapeString(entry.Tag),
			i+1,
			html.EscapeString(entry.Title),
			html.EscapeString(entry.Summary),
			html.EscapeString(entry.URL),
		)
	}

	b.WriteString("</body>\n</html>\n")

	return b.String()
}

func (f *Formatter) emptyText(now time.Time) string {
	return fmt.Sprintf("📰 *%s - %s*\n\nNo relevant news found today.", f.name, now.Format("January 2, 2006"))
}

func (f *Formatter) emptyHTML(now time.Time) string {
	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif;">
<h2>📰 %s</h2>
<p><strong>Date:</strong> %s</p>
<p>No relevant news found today.</p>
</body>
</html>
`, html.EscapeString(f.name), now.Format("January 2, 2006"))
}
