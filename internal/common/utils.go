package common

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/dtnitsch/merit-scan/pkg/parser"
)

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown artifacts.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// Extract URL from markdown link format: [text](url) -> url
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	// Example: "https://example.com/list.pdf," -> "https://example.com/list.pdf"
	trailingChars := []string{",", ")", "}", "]", "\"", "'", ">", ";"}
	for _, char := range trailingChars {
		cleaned = strings.TrimSuffix(cleaned, char)
	}

	// Example: "(https://example.com)" -> "https://example.com"
	leadingChars := []string{"(", "[", "<", "\"", "'"}
	for _, char := range leadingChars {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// ValidateAbsoluteURL sanitizes rawURL and checks that it is an absolute http(s) URL.
func ValidateAbsoluteURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)
	if cleaned == "" {
		return "", fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}[]<>\"' ") {
		return "", fmt.Errorf("invalid URL %q: missing or malformed host", rawURL)
	}
	return parsed.String(), nil
}

// ResolveDocumentURL accepts an absolute document URL or a link relative to
// the index page, the same way the index itself links its documents.
func ResolveDocumentURL(rawURL, indexURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)
	if u, err := url.Parse(cleaned); err == nil && u.IsAbs() {
		return ValidateAbsoluteURL(cleaned)
	}
	resolved, err := parser.ResolveURL(indexURL, cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid document URL %q: %w", rawURL, err)
	}
	return resolved, nil
}
