package views

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// StatusBar is the single-line footer: server, active filters, last
// refresh time and clock.
type StatusBar struct {
	*tview.TextView
	server    string
	filter    string
	refreshed time.Time
	polling   bool
}

// NewStatusBar creates the footer bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	return &StatusBar{TextView: tv}
}

// SetServer updates the backend address display.
func (sb *StatusBar) SetServer(url string) {
	sb.server = url
	sb.render()
}

// SetFilter updates the active-filter display.
func (sb *StatusBar) SetFilter(label string) {
	sb.filter = label
	sb.render()
}

// SetRefreshed records the last successful inbox load.
func (sb *StatusBar) SetRefreshed(t time.Time) {
	sb.refreshed = t
	sb.render()
}

// SetPolling toggles the background-poll indicator.
func (sb *StatusBar) SetPolling(on bool) {
	sb.polling = on
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	poll := " "
	if sb.polling {
		poll = "[green]~[-]"
	}

	refreshed := ""
	if !sb.refreshed.IsZero() {
		refreshed = sb.refreshed.Format("15:04:05")
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] %s | 更新 %s | %s",
		tview.Escape(sb.server), poll, refreshed, time.Now().Format("15:04"))
	if sb.filter != "" {
		line += fmt.Sprintf(" | [yellow]%s[-]", tview.Escape(sb.filter))
	}

	_, _ = fmt.Fprint(sb, line)
}
