package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints for the active view.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{TextView: tv, theme: theme}
}

// Update renders menu hints as a vertical list (one per line).
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()

	keyColor := ColorName(m.theme.MenuKeyColor)
	for _, h := range hints {
		_, _ = fmt.Fprintf(m, "[%s::b]<%s>[-:-:-] %s\n", keyColor, h.Key, h.Description)
	}
}
