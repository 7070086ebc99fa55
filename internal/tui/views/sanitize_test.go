package views

import "testing"

func TestSanitizeForTerminal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "発送はいつですか？", "発送はいつですか？"},
		{"crlf", "line1\r\nline2", "line1\nline2"},
		{"control chars", "a\x1b[31mb\x00c", "abc"},
		{"zero width joiner", "a‍b", "ab"},
		{"variation selector", "☺️", "☺"},
		{"keeps tabs and newlines", "a\tb\nc", "a\tb\nc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeForTerminal(tc.in); got != tc.want {
				t.Errorf("sanitizeForTerminal(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
