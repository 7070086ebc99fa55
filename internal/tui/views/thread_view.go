package views

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/render"
	"github.com/ymaeda/kotae/internal/triage"
	"github.com/ymaeda/kotae/internal/tui/ui"
)

// ThreadView renders the full conversation history for the selected
// customer, oldest first. It is read-only; all actions live in the
// reply panel below it.
type ThreadView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewThreadView creates the conversation history pane.
func NewThreadView(theme *ui.Theme) *ThreadView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" スレッド ")
	tv.SetTitleColor(theme.TitleColor)

	return &ThreadView{TextView: tv, theme: theme}
}

// Name implements Component.
func (tv *ThreadView) Name() string { return "thread" }

// Init implements Component.
func (tv *ThreadView) Init() {}

// Start implements Component.
func (tv *ThreadView) Start() {}

// Stop implements Component.
func (tv *ThreadView) Stop() {}

// Hints implements Component.
func (tv *ThreadView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "操作パネルへ"},
		{Key: "Esc", Description: "受信箱に戻る"},
		{Key: ":", Description: "コマンド"},
	}
}

// Update rerenders the thread. activeID marks the message whose reply
// workflow is shown in the panel.
func (tv *ThreadView) Update(thread *api.Thread, activeID int, accountName string) {
	tv.Clear()
	if thread == nil {
		return
	}

	keyColor := ui.ColorName(tv.theme.MenuKeyColor)

	header := tv.headerLine(thread, accountName)
	if header != "" {
		fmt.Fprintf(tv, "[%s]%s[-]\n\n", keyColor, tview.Escape(header))
	}

	for _, entry := range thread.Entries {
		m := entry.Message
		status := triage.Status(m.Status)
		marker := ""
		if m.ID == activeID {
			marker = "[::b]▶ [-:-:-]"
		}
		when := render.FormatTime(m.ReceivedAt)
		fmt.Fprintf(tv, "%s[::b]%s[-:-:-] [::d]%s[-:-:-]  %s\n",
			marker,
			tview.Escape(sanitizeForTerminal(m.Sender)),
			when,
			tv.theme.StatusTag(status))
		if m.Subject != "" {
			fmt.Fprintf(tv, "[::b]%s[-:-:-]\n", tview.Escape(sanitizeForTerminal(m.Subject)))
		}
		fmt.Fprintf(tv, "%s\n", tview.Escape(sanitizeForTerminal(m.Body)))

		for _, resp := range entry.Responses {
			tv.renderResponse(resp)
		}
		fmt.Fprint(tv, "\n")
	}

	tv.ScrollToEnd()
}

// headerLine shows the order ids tied to the conversation, when any.
func (tv *ThreadView) headerLine(thread *api.Thread, accountName string) string {
	var parts []string
	if accountName != "" {
		parts = append(parts, accountName)
	}
	switch {
	case len(thread.OrderIDs) > 0:
		parts = append(parts, "注文: "+strings.Join(thread.OrderIDs, ", "))
	case thread.OrderID != "":
		parts = append(parts, "注文: "+thread.OrderID)
	}
	return strings.Join(parts, "  |  ")
}

func (tv *ThreadView) renderResponse(resp api.Response) {
	if resp.IsSent {
		body := resp.FinalBody
		if body == "" {
			body = resp.DraftBody
		}
		tag := ui.ColorName(tv.theme.StatusSent)
		fmt.Fprintf(tv, "\n  [%s]┃ 送信済 %s[-]\n", tag, render.FormatTime(resp.SentAt))
		fmt.Fprintf(tv, "  %s\n", tview.Escape(sanitizeForTerminal(indent(body))))
		return
	}
	tag := ui.ColorName(tv.theme.StatusAIDrafted)
	fmt.Fprintf(tv, "\n  [%s]┃ 下書き %s[-]\n", tag, render.FormatTime(resp.CreatedAt))
	fmt.Fprintf(tv, "  %s\n", tview.Escape(sanitizeForTerminal(indent(resp.DraftBody))))
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
