package process

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func articlePage(body string) string {
	return fmt.Sprintf(`<html>
<head><title>page</title><style>.x{color:red}</style></head>
<body>
<nav>Home | About | Delaware directory</nav>
<article>%s</article>
<aside>Related: Delaware beaches travel guide</aside>
<footer>Copyright</footer>
</body>
</html>`, body)
}

// padding makes an article body long enough to pass the length gate.
var padding = strings.Repeat("Additional reporting and context for this story. ", 10)

func TestVerifier_Verify(t *testing.T) {
	matcher := NewKeywordMatcher([]string{"franchise tax"}, false)

	tests := []struct {
		name         string
		page         string
		wantRelevant bool
		wantChecked  bool
	}{
		{
			name:         "keyword in article body",
			page:         articlePage("Companies cite the franchise tax as the main reason. " + padding),
			wantRelevant: true,
			wantChecked:  true,
		},
		{
			name:         "keyword only in chrome",
			page:         `<html><body><nav>franchise tax guide</nav><article>` + padding + `</article></body></html>`,
			wantRelevant: false,
			wantChecked:  true,
		},
		{
			name:         "no keyword anywhere",
			page:         articlePage("A story about something else entirely. " + padding),
			wantRelevant: false,
			wantChecked:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.page)
			}))
			defer server.Close()

			verifier := NewVerifier(matcher, 5*time.Second)

			relevant, checked, err := verifier.Verify(server.URL)
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}

			if checked != tt.wantChecked {
				t.Errorf("checked = %v, want %v", checked, tt.wantChecked)
			}

			if relevant != tt.wantRelevant {
				t.Errorf("relevant = %v, want %v", relevant, tt.wantRelevant)
			}
		})
	}
}

func TestVerifier_Verify_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	verifier := NewVerifier(NewKeywordMatcher([]string{"delaware"}, false), 5*time.Second)

	_, checked, err := verifier.Verify(server.URL)
	if err == nil {
		t.Fatal("Expected error for 403 response, got nil")
	}

	if !errors.Is(err, ErrVerifyStatus) {
		t.Errorf("Expected ErrVerifyStatus, got %v", err)
	}

	if checked {
		t.Error("Expected checked=false on fetch error")
	}
}

func TestExtractMainContent(t *testing.T) {
	t.Run("prefers article over body", func(t *testing.T) {
		page := articlePage("The main story text. " + padding)

		content, err := ExtractMainContent(page)
		if err != nil {
			t.Fatalf("ExtractMainContent failed: %v", err)
		}

		if !strings.Contains(content, "The main story text.") {
			t.Errorf("Expected article text in content, got %q", content)
		}

		if strings.Contains(content, "Delaware beaches") {
			t.Errorf("Expected aside text removed, got %q", content)
		}
	})

	t.Run("short article falls back to body", func(t *testing.T) {
		page := `<html><body><article>too short</article><p>Body paragraph text here.</p></body></html>`

		content, err := ExtractMainContent(page)
		if err != nil {
			t.Fatalf("ExtractMainContent failed: %v", err)
		}

		if !strings.Contains(content, "Body paragraph text here.") {
			t.Errorf("Expected body fallback, got %q", content)
		}
	})

	t.Run("scripts and styles removed", func(t *testing.T) {
		page := `<html><body><script>var delaware = 1;</script><p>Visible text.</p></body></html>`

		content, err := ExtractMainContent(page)
		if err != nil {
			t.Fatalf("ExtractMainContent failed: %v", err)
		}

		if strings.Contains(content, "var delaware") {
			t.Errorf("Expected script content removed, got %q", content)
		}
	})
}
