// Package slug assigns URL-safe, collision-suffixed slugs to heading text.
package slug

import (
	"strconv"
	"strings"
)

// Slugifier converts heading text into unique slugs for a single document.
// It is not safe for concurrent use; a new Slugifier is created per
// document being parsed.
type Slugifier struct {
	seen map[string]int
}

// New returns a Slugifier with empty per-document state.
func New() *Slugifier {
	return &Slugifier{seen: make(map[string]int)}
}

// Slug converts text to a slug: lowercase, non-alphanumerics collapsed to
// a single '-', leading/trailing '-' trimmed. Reappearing slugs within the
// same Slugifier acquire "-1", "-2", ... suffixes in first-seen order.
func (s *Slugifier) Slug(text string) string {
	base := baseSlug(text)
	if base == "" {
		base = "section"
	}

	n, exists := s.seen[base]
	s.seen[base] = n + 1
	if !exists {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// baseSlug performs the deterministic, collision-unaware conversion.
func baseSlug(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prevDash := false
	for _, r := range text {
		switch {
		case isAlphaNumeric(r):
			b.WriteRune(toLower(r))
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
