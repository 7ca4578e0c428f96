package model

import "strings"

// schemes that are kept as typed; anything else gets https:// in front.
var knownSchemes = []string{"http://", "https://", "ftp://", "file://", "chrome://", "mailto:"}

// NormalizeURL trims the input and prefixes https:// when it lacks a recognized scheme.
// Empty input stays empty.
func NormalizeURL(raw string) string {
	url := strings.TrimSpace(raw)
	if url == "" {
		return ""
	}

	lower := strings.ToLower(url)
	for _, scheme := range knownSchemes {
		if strings.HasPrefix(lower, scheme) {
			return url
		}
	}

	return "https://" + url
}
