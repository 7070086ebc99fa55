package views

import (
	"strings"
	"unicode/utf8"
)

// sanitizeForTerminal removes codepoints that break tcell/tview rendering.
// Customer messages arrive from web forms and marketplace APIs, so they
// carry CR/LF pairs, zero-width joiners and emoji variation selectors:
// - C0/C1 controls other than newline collapse row layout
// - Skin tone modifiers (U+1F3FB..U+1F3FF) create multi-codepoint emoji
// - Zero Width Joiner (U+200D) glues emoji sequences
// - Variation Selectors (U+FE00..U+FE0F, U+E0100..) modify the previous rune
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\r':
			// CRLF becomes a bare LF.
		case isProblematicRune(r):
		default:
			b.WriteRune(r)
		}
		i += size
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r < 0x20 && r != '\n' && r != '\t':
		return true
	case r >= 0x7F && r <= 0x9F:
		return true
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}
