// Package models defines data structures shared by the collectors and the digest pipeline.
package models

import "time"

// Entry represents one collected piece of content (article or social post)
// as it flows through the pipeline. Tag and Summary are assigned during
// enrichment; everything else is set at collection time.
type Entry struct {
	CollectedAt time.Time `json:"collectedAt"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Published   string    `json:"published"`
	Author      string    `json:"author"`
	Tag         string    `json:"tag,omitempty"`
	Summary     string    `json:"summary,omitempty"`
}

// Text returns the searchable text of the entry (title plus description).
func (e *Entry) Text() string {
	if e.Title == "" {
		return e.Description
	}

	if e.Description == "" {
		return e.Title
	}

	return e.Title + " " + e.Description
}
