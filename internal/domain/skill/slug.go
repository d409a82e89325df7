package skill

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so that "Développement" and
// "developpement" compare equal. Non-latin runes pass through unchanged.
func Fold(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return norm.NFC.String(b.String())
}

// NormalizeSlug derives the canonical slug for a skill display name:
// folded, every non-alphanumeric run collapsed to a single hyphen,
// leading/trailing hyphens trimmed. Deterministic, so the same display
// name always resolves to the same catalog row.
func NormalizeSlug(displayName string) string {
	folded := Fold(displayName)

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
