package security

import (
	"net/http"
	"net/url"
	"strings"
)

// Sensitive header names that should be redacted.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,
}

const redactedValue = "[REDACTED]"

// SanitizeURL strips the query string from a verification URL before it is
// logged. The query carries the signed fiscal token, which identifies the
// buyer's receipt and must not end up in log storage.
func SanitizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return redactedValue
	}
	if parsed.RawQuery != "" {
		parsed.RawQuery = redactedValue
	}
	parsed.Fragment = ""
	return parsed.String()
}

// SanitizeHeaders removes sensitive headers from an HTTP header map.
// Returns a new map with sensitive values redacted.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string)

	for key, values := range headers {
		lowerKey := strings.ToLower(key)
		if sensitiveHeaders[lowerKey] {
			sanitized[key] = redactedValue
		} else {
			// Join multiple values with comma
			sanitized[key] = strings.Join(values, ", ")
		}
	}

	return sanitized
}
