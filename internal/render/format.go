// Package render formats backend data for terminal display: width-aware
// truncation, timestamp parsing and money/token formatting.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	// ListPreviewWidth bounds message bodies in the inbox and template
	// previews in the manager.
	ListPreviewWidth = 80
	// TemplatePreviewWidth bounds template cards in the reply workflow.
	TemplatePreviewWidth = 150
)

// USDJPYRate converts the backend's USD cost to an approximate JPY figure
// for display only. It is a hardcoded display constant, not authoritative.
const USDJPYRate = 150.0

// Preview collapses whitespace to single spaces and truncates to the
// given display width with an ellipsis marker.
func Preview(s string, width int) string {
	return Truncate(strings.Join(strings.Fields(s), " "), width)
}

// Truncate shortens s to at most width display cells, appending … when
// something was cut. Width is measured in terminal cells, so CJK text
// counts double.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// timeLayouts covers the backend's timestamp variants: FastAPI emits
// naive ISO-8601 without a zone, the thread endpoint sometimes with one.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTime parses a backend timestamp. The zero time and false are
// returned when the value is empty or unparseable.
func ParseTime(iso string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime renders a backend timestamp for list rows: clock time for
// today, month/day otherwise.
func FormatTime(iso string) string {
	t, ok := ParseTime(iso)
	if !ok {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02 15:04")
}

// FormatUSD renders a dollar cost with four decimals, matching the
// backend's rounding.
func FormatUSD(usd float64) string {
	return fmt.Sprintf("$%.4f", usd)
}

// FormatJPY renders the fixed-rate yen approximation of a dollar cost.
func FormatJPY(usd float64) string {
	return fmt.Sprintf("￥%s", groupDigits(int64(usd*USDJPYRate+0.5)))
}

// FormatTokens renders a token count with thousands separators.
func FormatTokens(n int64) string {
	return groupDigits(n)
}

func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Pad right-fills s with spaces to the given display width, truncating
// when it is too long. Used for aligned table-like text views.
func Pad(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}
