package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/ymaeda/kotae/internal/triage"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color

	// Status badge colors keyed by message status.
	StatusNew       tcell.Color
	StatusAIDrafted tcell.Color
	StatusReviewed  tcell.Color
	StatusSent      tcell.Color
	StatusHandled   tcell.Color
}

// DefaultTheme returns a k9s-inspired dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,

		StatusNew:       tcell.ColorOrangeRed,
		StatusAIDrafted: tcell.ColorGold,
		StatusReviewed:  tcell.ColorAqua,
		StatusSent:      tcell.ColorLimeGreen,
		StatusHandled:   tcell.ColorGray,
	}
}

// StatusColor returns the badge color for a message status.
func (t *Theme) StatusColor(s triage.Status) tcell.Color {
	switch s {
	case triage.StatusNew:
		return t.StatusNew
	case triage.StatusAIDrafted:
		return t.StatusAIDrafted
	case triage.StatusReviewed:
		return t.StatusReviewed
	case triage.StatusSent:
		return t.StatusSent
	case triage.StatusHandled:
		return t.StatusHandled
	default:
		return t.FgColor
	}
}

// StatusTag renders a tview color tag plus the Japanese badge for a status.
func (t *Theme) StatusTag(s triage.Status) string {
	return fmt.Sprintf("[%s]%s[-]", ColorName(t.StatusColor(s)), s.Label())
}

// ColorName returns a tview-compatible color name string.
func ColorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
