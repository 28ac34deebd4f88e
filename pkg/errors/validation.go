package errors

import (
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateToken checks that an API token from the environment is present
// and plausibly well-formed. Tokens are mandatory preconditions: the
// pipeline refuses to start network activity without them.
func ValidateToken(name, token string) error {
	if strings.TrimSpace(token) == "" {
		return New(ErrCodeMissingToken, "%s environment variable is required", name)
	}
	for _, r := range token {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains whitespace or control characters", name)
		}
	}
	return nil
}

// ValidateRepoKey checks an owner/name join key for the shape the
// GraphQL query builder expects.
func ValidateRepoKey(key string) error {
	owner, name, found := strings.Cut(key, "/")
	if !found || owner == "" || name == "" {
		return New(ErrCodeInvalidInput, "repo key must be owner/name, got %q", key)
	}
	if strings.ContainsAny(key, " \t\n\"\\") {
		return New(ErrCodeInvalidInput, "repo key contains invalid characters: %q", key)
	}
	return nil
}
