package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	segmentSplit = regexp.MustCompile(`[^a-z0-9]+`)
	// bearer credentials and mock session tokens that end up inside messages
	tokenPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-._~+/]+=*|mock-token-[0-9]+-[a-z0-9]+`)
)

// redactor hides credential values in log key-value pairs.
type redactor struct {
	sensitiveWords map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "authorization", "credential", "jwt", "cookie"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact returns a copy of the flattened pairs [k1, v1, k2, v2, ...] where values of
// sensitive keys are replaced and string values are scrubbed of embedded tokens.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			result[i+1] = redacted
			continue
		}
		if s, ok := result[i+1].(string); ok {
			result[i+1] = r.redactValue(s)
		}
	}
	return result
}

// isSensitive reports whether key contains a sensitive word as a separate segment,
// so "api_token" matches and "apitoken" does not.
func (r *redactor) isSensitive(key string) bool {
	for _, part := range segmentSplit.Split(strings.ToLower(key), -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}

func (r *redactor) redactValue(value string) string {
	return tokenPattern.ReplaceAllStringFunc(value, func(m string) string {
		if sub := tokenPattern.FindStringSubmatch(m); len(sub) > 1 && sub[1] != "" {
			return sub[1] + redacted
		}
		return redacted
	})
}
