package process

import "testing"

func TestKeywordMatcher_Substring(t *testing.T) {
	matcher := NewKeywordMatcher([]string{"Leave Delaware", "franchise tax"}, false)

	tests := []struct {
		name        string
		text        string
		wantKeyword string
		wantMatch   bool
	}{
		{
			name:        "exact phrase",
			text:        "Why companies Leave Delaware for Texas",
			wantKeyword: "leave delaware",
			wantMatch:   true,
		},
		{
			name:        "case insensitive",
			text:        "LEAVE DELAWARE movement grows",
			wantKeyword: "leave delaware",
			wantMatch:   true,
		},
		{
			name:        "second keyword",
			text:        "Annual franchise tax deadline approaches",
			wantKeyword: "franchise tax",
			wantMatch:   true,
		},
		{
			name:        "substring mode matches inside words",
			text:        "franchise taxation reform",
			wantKeyword: "franchise tax",
			wantMatch:   true,
		},
		{name: "no match", text: "Weather report for Dover", wantMatch: false},
		{name: "empty text", text: "", wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyword, ok := matcher.Match(tt.text)
			if ok != tt.wantMatch {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.text, ok, tt.wantMatch)
			}

			if ok && keyword != tt.wantKeyword {
				t.Errorf("Match(%q) = %q, want %q", tt.text, keyword, tt.wantKeyword)
			}
		})
	}
}

func TestKeywordMatcher_WholeWord(t *testing.T) {
	matcher := NewKeywordMatcher([]string{"tax", "Leave Delaware"}, true)

	tests := []struct {
		name      string
		text      string
		wantMatch bool
	}{
		{"standalone word", "Delaware tax changes announced", true},
		{"word not inside larger word", "a taxonomy of state incentives", false},
		{"phrase across punctuation", "Will they leave Delaware?", true},
		{"phrase words out of order", "Delaware firms leave quietly", false},
		{"word at end of sentence", "Nobody likes tax.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := matcher.Match(tt.text); ok != tt.wantMatch {
				t.Errorf("Match(%q) = %v, want %v", tt.text, ok, tt.wantMatch)
			}
		})
	}
}

func TestNewKeywordMatcher_SkipsBlankKeywords(t *testing.T) {
	matcher := NewKeywordMatcher([]string{"  ", "", "delaware"}, false)

	if len(matcher.keywords) != 1 {
		t.Fatalf("Expected 1 keyword, got %d", len(matcher.keywords))
	}

	if _, ok := matcher.Match("Delaware news"); !ok {
		t.Error("Expected match on remaining keyword")
	}
}
