package utils

import "net/http"

// BuildHeaders creates HTTP headers with defaults for collection requests.
func BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", "ldnews/1.0")
	headers.Set("Accept", "application/json, text/csv, text/html")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
