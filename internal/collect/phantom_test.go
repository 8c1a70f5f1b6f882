package collect

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ldnews/internal/config"
	"ldnews/internal/logger"
)

func testPhantomClient(t *testing.T, phantoms []config.PhantomConfig, handler http.Handler) (*PhantomClient, func()) {
	t.Helper()

	server := httptest.NewServer(handler)

	client := NewPhantomClient(phantoms, "test-key", 24*time.Hour, NewFetcherWithPolicy(fastRetryPolicy(1)), logger.NewLogger("error"))
	client.SetBaseURL(server.URL)

	return client, server.Close
}

func TestParseRows_JSON(t *testing.T) {
	raw := `[
		{"text": "post one", "timestamp": "2026-08-29T10:00:00Z", "url": "https://x.com/u/status/1", "likes": 42},
		{"text": "post two", "timestamp": "2026-08-29T11:00:00Z"}
	]`

	rows, err := parseRows(raw)
	if err != nil {
		t.Fatalf("parseRows failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	if rows[0]["text"] != "post one" {
		t.Errorf("Expected 'post one', got %q", rows[0]["text"])
	}

	if rows[0]["likes"] != "42" {
		t.Errorf("Expected numeric field as string '42', got %q", rows[0]["likes"])
	}
}

func TestParseRows_CSV(t *testing.T) {
	raw := "text,date,postUrl\n" +
		"\"a post, with a comma\",2026-08-29,https://example.com/1\n" +
		"short row,2026-08-29\n"

	rows, err := parseRows(raw)
	if err != nil {
		t.Fatalf("parseRows failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	if rows[0]["text"] != "a post, with a comma" {
		t.Errorf("Expected quoted field preserved, got %q", rows[0]["text"])
	}

	if rows[1]["postUrl"] != "" {
		t.Errorf("Expected missing field empty, got %q", rows[1]["postUrl"])
	}
}

func TestParseRows_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "header,only\n"} {
		rows, err := parseRows(raw)
		if err != nil {
			t.Errorf("parseRows(%q) failed: %v", raw, err)
		}

		if len(rows) != 0 {
			t.Errorf("parseRows(%q) = %d rows, want 0", raw, len(rows))
		}
	}
}

func TestPhantomClient_CollectAll_Twitter(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC3339)
	stale := time.Now().Add(-72 * time.Hour).Format(time.RFC3339)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Phantombuster-Key-1"); got != "test-key" {
			t.Errorf("Expected API key header, got %q", got)
		}

		if got := r.URL.Query().Get("id"); got != "agent-1" {
			t.Errorf("Expected agent id 'agent-1', got %q", got)
		}

		fmt.Fprintf(w, `[
			{"text": "Startups leave Delaware", "timestamp": %q, "tweetUrl": "https://x.com/u/status/1", "handle": "someuser"},
			{"text": "Old news", "timestamp": %q, "tweetUrl": "https://x.com/u/status/2", "handle": "other"},
			{"timestamp": %q, "tweetUrl": "https://x.com/u/status/3"}
		]`, recent, stale, recent)
	})

	phantoms := []config.PhantomConfig{{AgentID: "agent-1", Name: "hashtag", Kind: "twitter", Enabled: true}}

	client, closeServer := testPhantomClient(t, phantoms, handler)
	defer closeServer()

	entries := client.CollectAll()

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry (windowed, with text), got %d", len(entries))
	}

	entry := entries[0]
	if entry.Source != "Twitter (hashtag)" {
		t.Errorf("Expected source 'Twitter (hashtag)', got %q", entry.Source)
	}

	if entry.Author != "someuser" {
		t.Errorf("Expected author 'someuser', got %q", entry.Author)
	}

	if entry.URL != "https://x.com/u/status/1" {
		t.Errorf("Expected tweetUrl picked, got %q", entry.URL)
	}
}

func TestPhantomClient_CollectAll_LinkedInCSV(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format("2006-01-02 15:04:05")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "content,postTimestamp,postLink,profileName\nDelaware incorporation trends,%s,https://www.linkedin.com/posts/abc,Jane Smith\n", recent)
	})

	phantoms := []config.PhantomConfig{{AgentID: "agent-2", Kind: "linkedin", Enabled: true}}

	client, closeServer := testPhantomClient(t, phantoms, handler)
	defer closeServer()

	entries := client.CollectAll()

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Source != "LinkedIn" {
		t.Errorf("Expected source 'LinkedIn', got %q", entry.Source)
	}

	if entry.Author != "Jane Smith" {
		t.Errorf("Expected author 'Jane Smith', got %q", entry.Author)
	}
}

func TestPhantomClient_FetchOutput_FallsBackToQueryKey(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC3339)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			w.WriteHeader(http.StatusBadRequest)

			return
		}

		fmt.Fprintf(w, `[{"text": "fallback worked", "timestamp": %q}]`, recent)
	})

	phantoms := []config.PhantomConfig{{AgentID: "agent-3", Kind: "twitter", Enabled: true}}

	client, closeServer := testPhantomClient(t, phantoms, handler)
	defer closeServer()

	entries := client.CollectAll()

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry via query-key fallback, got %d", len(entries))
	}

	if entries[0].Title != "fallback worked" {
		t.Errorf("Expected 'fallback worked', got %q", entries[0].Title)
	}
}

func TestPhantomClient_CollectAll_SkipsFailingAgent(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC3339)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") == "bad-agent" {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		fmt.Fprintf(w, `[{"text": "still collected", "timestamp": %q}]`, recent)
	})

	phantoms := []config.PhantomConfig{
		{AgentID: "bad-agent", Kind: "twitter", Enabled: true},
		{AgentID: "good-agent", Kind: "twitter", Enabled: true},
	}

	client, closeServer := testPhantomClient(t, phantoms, handler)
	defer closeServer()

	entries := client.CollectAll()

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry from the working agent, got %d", len(entries))
	}
}

func TestPhantomClient_TruncatesLongPosts(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Format(time.RFC3339)

	longText := ""
	for i := 0; i < 30; i++ {
		longText += "very long post "
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"text": %q, "timestamp": %q}]`, longText, recent)
	})

	phantoms := []config.PhantomConfig{{AgentID: "agent-4", Kind: "twitter", Enabled: true}}

	client, closeServer := testPhantomClient(t, phantoms, handler)
	defer closeServer()

	entries := client.CollectAll()

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	if len(entries[0].Title) > titleWidth+3 {
		t.Errorf("Expected title truncated to ~%d, got %d chars", titleWidth, len(entries[0].Title))
	}

	if entries[0].Description != longText {
		t.Error("Expected description to carry the full post text")
	}
}
