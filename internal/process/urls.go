package process

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters stripped from every canonical URL.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"msclkid": true,
	"igshid":  true,
	"mkt_tok": true,
	"ref_src": true,
	"ref_url": true,
	"cmpid":   true,
	"ocid":    true,
}

// CanonicalURL normalizes a collected link: Google Alerts redirect wrappers
// are unwrapped, tracking query parameters and fragments are dropped, and
// social-media permalinks are reduced to their canonical form. Unparseable
// input is returned trimmed but otherwise untouched.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}

	if target, ok := unwrapGoogleRedirect(parsed); ok {
		// The wrapped target may itself carry tracking parameters.
		return CanonicalURL(target)
	}

	parsed.Fragment = ""

	host := strings.ToLower(parsed.Host)

	switch {
	case isTwitterHost(host):
		canonicalizeTwitter(parsed)
	case strings.HasSuffix(host, "linkedin.com"):
		canonicalizeLinkedIn(parsed)
	default:
		stripTracking(parsed)
	}

	return parsed.String()
}

// unwrapGoogleRedirect extracts the target from google.com/url?url=… links,
// which is how Google Alerts wraps every feed item.
func unwrapGoogleRedirect(u *url.URL) (string, bool) {
	host := strings.ToLower(u.Host)
	if host != "google.com" && !strings.HasSuffix(host, ".google.com") {
		return "", false
	}

	if u.Path != "/url" {
		return "", false
	}

	query := u.Query()

	target := query.Get("url")
	if target == "" {
		target = query.Get("q")
	}

	if target == "" || !strings.HasPrefix(target, "http") {
		return "", false
	}

	return target, true
}

func isTwitterHost(host string) bool {
	switch host {
	case "twitter.com", "www.twitter.com", "mobile.twitter.com", "x.com", "www.x.com":
		return true
	}

	return false
}

// canonicalizeTwitter rewrites any twitter.com variant to an x.com permalink
// without query parameters.
func canonicalizeTwitter(u *url.URL) {
	u.Host = "x.com"
	u.RawQuery = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
}

// canonicalizeLinkedIn strips the tracking suffix LinkedIn appends to post
// and update permalinks.
func canonicalizeLinkedIn(u *url.URL) {
	u.Host = "www.linkedin.com"

	if strings.HasPrefix(u.Path, "/posts/") || strings.HasPrefix(u.Path, "/feed/update/") {
		u.RawQuery = ""
		u.Path = strings.TrimSuffix(u.Path, "/")

		return
	}

	stripTracking(u)
}

// stripTracking removes utm_* and other known tracking query parameters.
func stripTracking(u *url.URL) {
	if u.RawQuery == "" {
		return
	}

	query := u.Query()

	for param := range query {
		if strings.HasPrefix(param, "utm_") || trackingParams[param] {
			query.Del(param)
		}
	}

	u.RawQuery = query.Encode()
}
