package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"

	"github.com/ymaeda/kotae/internal/triage"
)

// ServerData holds connection and inbox metadata for the header panel.
type ServerData struct {
	ServerURL   string
	Accounts    int
	Summary     triage.Summary
	LastRefresh time.Time
	Poll        time.Duration
}

// ServerInfo displays backend/server metadata in the header.
type ServerInfo struct {
	*tview.TextView
	theme *Theme
}

// NewServerInfo creates a new server info panel.
func NewServerInfo(theme *Theme) *ServerInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ServerInfo{TextView: tv, theme: theme}
}

// Update renders the server info.
func (si *ServerInfo) Update(data *ServerData) {
	si.Clear()
	if data == nil {
		return
	}

	fgColor := ColorName(si.theme.FgColor)
	counterColor := ColorName(si.theme.CounterColor)

	refreshed := "-"
	if !data.LastRefresh.IsZero() {
		refreshed = data.LastRefresh.Format("15:04:05")
	}

	_, _ = fmt.Fprintf(si,
		"[%s::b]Server:[-:-:-]   [%s]%s[-]\n"+
			"[%s::b]Accounts:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Inbox:[-:-:-]    [%s]%s[-]\n"+
			"[%s::b]Refreshed:[-:-:-] [%s]%s (every %s)[-]",
		fgColor, counterColor, data.ServerURL,
		fgColor, counterColor, data.Accounts,
		fgColor, counterColor, data.Summary.Line(),
		fgColor, counterColor, refreshed, data.Poll,
	)
}
