package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxFileNameRunes bounds the length of a normalized name fragment.
const MaxFileNameRunes = 100

// UnknownFileName is returned when a title normalizes to nothing.
const UnknownFileName = "unknown"

// NormalizeFileName converts arbitrary text into a name fragment safe to embed
// in a file name. Letters of any script, digits, and hyphens are kept; every
// other rune becomes an underscore, and runs of whitespace or underscores
// collapse into a single underscore. The result is truncated to
// MaxFileNameRunes runes and stripped of leading/trailing underscores.
// Returns UnknownFileName when nothing survives.
func NormalizeFileName(name string) string {
	if name == "" {
		return UnknownFileName
	}
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range name {
		if !isNameRune(r) {
			pendingSep = true
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}

	collapsed := b.String()
	if utf8.RuneCountInString(collapsed) > MaxFileNameRunes {
		collapsed = string([]rune(collapsed)[:MaxFileNameRunes])
	}

	out := strings.Trim(collapsed, "_")
	if out == "" {
		return UnknownFileName
	}
	return out
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '-'
}
