package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumbs is a breadcrumb bar showing the current navigation path.
type Crumbs struct {
	*tview.TextView
	theme *Theme
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{TextView: tv, theme: theme}
}

// Update renders the breadcrumb trail from the page stack.
func (c *Crumbs) Update(stack []string) {
	c.Clear()
	if len(stack) == 0 {
		return
	}

	var parts []string
	for i, name := range stack {
		if i == len(stack)-1 {
			parts = append(parts, fmt.Sprintf("[%s:%s:b] %s [-:-:-]",
				ColorName(c.theme.CrumbActiveFg), ColorName(c.theme.CrumbActiveBg), name))
		} else {
			parts = append(parts, fmt.Sprintf("[%s:%s:] %s [-:-:-]",
				ColorName(c.theme.CrumbInactiveFg), ColorName(c.theme.CrumbInactiveBg), name))
		}
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " > "))
}
