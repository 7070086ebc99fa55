package render

import (
	"strings"
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"short untouched", "hello", 80, "hello"},
		{"exact width untouched", strings.Repeat("a", 80), 80, strings.Repeat("a", 80)},
		{"over width gets ellipsis", strings.Repeat("a", 81), 80, strings.Repeat("a", 79) + "…"},
		{"cjk counts double width", "こんにちは", 6, "こん…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestPreviewCollapsesWhitespace(t *testing.T) {
	got := Preview("商品が\n届きません。\t至急   確認してください。", 80)
	want := "商品が 届きません。 至急 確認してください。"
	if got != want {
		t.Errorf("Preview() = %q, want %q", got, want)
	}
}

func TestPreviewWidths(t *testing.T) {
	long := strings.Repeat("x", 200)
	if got := Preview(long, ListPreviewWidth); len([]rune(got)) != 80 {
		// 79 chars + ellipsis
		t.Errorf("list preview rune length = %d, want 80", len([]rune(got)))
	}
	if got := Preview(long, TemplatePreviewWidth); len([]rune(got)) != 150 {
		t.Errorf("template preview rune length = %d, want 150", len([]rune(got)))
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"2026-08-26T12:34:56", true},
		{"2026-08-26T12:34:56.123456", true},
		{"2026-08-26T12:34:56Z", true},
		{"2026-08-26T12:34:56+09:00", true},
		{"", false},
		{"not a time", false},
	}

	for _, tt := range tests {
		if _, ok := ParseTime(tt.in); ok != tt.ok {
			t.Errorf("ParseTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
	}
}

func TestFormatTimeOldDate(t *testing.T) {
	got := FormatTime("2020-01-02T15:04:05")
	if got != "01/02 15:04" {
		t.Errorf("FormatTime() = %q, want \"01/02 15:04\"", got)
	}
}

func TestFormatTimeToday(t *testing.T) {
	now := time.Now()
	iso := now.Format("2006-01-02T15:04:05")
	if got := FormatTime(iso); got != now.Format("15:04") {
		t.Errorf("FormatTime(today) = %q, want %q", got, now.Format("15:04"))
	}
}

func TestMoneyFormatting(t *testing.T) {
	if got := FormatUSD(1.23456); got != "$1.2346" {
		t.Errorf("FormatUSD() = %q", got)
	}
	// 12.5 USD * 150 = 1875 JPY
	if got := FormatJPY(12.5); got != "￥1,875" {
		t.Errorf("FormatJPY() = %q, want ￥1,875", got)
	}
	if got := FormatTokens(1234567); got != "1,234,567" {
		t.Errorf("FormatTokens() = %q", got)
	}
	if got := FormatTokens(999); got != "999" {
		t.Errorf("FormatTokens() = %q", got)
	}
}
