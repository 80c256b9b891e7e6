package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matcher matches clients against a free-text search query.
// A Matcher is not safe for concurrent use.
type Matcher struct {
	raw   string
	lower string
	caser cases.Caser
}

// NewMatcher prepares a query. The query is trimmed; name, email and company are
// compared case-insensitively while the phone is compared literally.
func NewMatcher(query string) *Matcher {
	caser := cases.Lower(language.Und)
	raw := strings.TrimSpace(query)
	return &Matcher{raw: raw, lower: caser.String(raw), caser: caser}
}

// IsEmpty reports whether the query matches everything.
func (m *Matcher) IsEmpty() bool {
	return m.raw == ""
}

// Match returns true if the client matches the query.
func (m *Matcher) Match(c Client) bool {
	if m.IsEmpty() {
		return true
	}
	for _, field := range []string{c.Name, c.Email, c.Company} {
		if field == "" {
			continue
		}
		if strings.Contains(m.caser.String(field), m.lower) {
			return true
		}
	}
	return c.Phone != "" && strings.Contains(c.Phone, m.raw)
}

// MatchesQuery reports whether a single client matches query.
func MatchesQuery(c Client, query string) bool {
	return NewMatcher(query).Match(c)
}

// FilterClients returns the clients matching query, preserving order.
// The input slice is never modified.
func FilterClients(clients []Client, query string) []Client {
	m := NewMatcher(query)
	result := make([]Client, 0, len(clients))
	for _, c := range clients {
		if m.Match(c) {
			result = append(result, c)
		}
	}
	return result
}
