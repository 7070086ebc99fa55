package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/render"
	"github.com/ymaeda/kotae/internal/triage"
	"github.com/ymaeda/kotae/internal/tui/ui"
)

// MessageList is the inbox table. Filtering happens server-side; the
// table only renders what the view model last loaded.
type MessageList struct {
	*tview.Table
	theme    *ui.Theme
	messages []api.Message
	summary  triage.Summary
	filter   string
}

// NewMessageList creates the inbox table.
func NewMessageList(theme *ui.Theme) *MessageList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" 受信箱 ")
	table.SetTitleColor(theme.TitleColor)

	return &MessageList{
		Table: table,
		theme: theme,
	}
}

// Name implements Component.
func (ml *MessageList) Name() string { return "inbox" }

// Init implements Component.
func (ml *MessageList) Init() {}

// Start implements Component.
func (ml *MessageList) Start() {}

// Stop implements Component.
func (ml *MessageList) Stop() {}

// Hints implements Component.
func (ml *MessageList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "スレッドを開く"},
		{Key: "/", Description: "検索"},
		{Key: ":", Description: "コマンド"},
		{Key: "f", Description: "新着取得"},
		{Key: "?", Description: "ヘルプ"},
		{Key: "q", Description: "終了"},
	}
}

// Update replaces the rendered rows and recomputes the status summary.
func (ml *MessageList) Update(msgs []api.Message, filterLabel string) {
	ml.messages = msgs
	ml.summary = triage.Summarize(msgs)
	ml.filter = filterLabel
	ml.render()
}

// SummaryLine returns the status-count line for the current result set.
func (ml *MessageList) SummaryLine() string {
	return ml.summary.Line()
}

func (ml *MessageList) render() {
	row, _ := ml.GetSelection()
	ml.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" 状態", 0},
		{" 受信", 0},
		{" アカウント", 0},
		{" カテゴリ", 0},
		{" 送信者", 0},
		{" 本文", 2},
		{" 件数", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(ml.theme.TableHeaderFg).
			SetBackgroundColor(ml.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		ml.SetCell(0, col, cell)
	}

	for i, m := range ml.messages {
		r := i + 1
		status := triage.Status(m.Status)

		category := ""
		if m.QuestionCategory != "" {
			category = triage.Category(m.QuestionCategory).Label()
		}

		preview := render.Preview(sanitizeForTerminal(m.Body), render.ListPreviewWidth)

		threads := ""
		if m.ThreadCount > 1 {
			threads = fmt.Sprintf("%d", m.ThreadCount)
		}

		ml.SetCell(r, 0, tview.NewTableCell(" "+status.Label()).SetTextColor(ml.theme.StatusColor(status)))
		ml.SetCell(r, 1, tview.NewTableCell(" "+render.FormatTime(m.ReceivedAt)).SetTextColor(ml.theme.FgColor))
		ml.SetCell(r, 2, tview.NewTableCell(" "+tview.Escape(m.AccountName)).SetTextColor(ml.theme.FgColor))
		ml.SetCell(r, 3, tview.NewTableCell(" "+category).SetTextColor(ml.theme.FgColor))
		ml.SetCell(r, 4, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(m.Sender))).SetTextColor(ml.theme.FgColor))
		ml.SetCell(r, 5, tview.NewTableCell(" "+tview.Escape(preview)).SetExpansion(2).SetTextColor(ml.theme.FgColor))
		ml.SetCell(r, 6, tview.NewTableCell(threads).SetTextColor(ml.theme.CounterColor).SetAlign(tview.AlignRight))
	}

	title := fmt.Sprintf(" 受信箱  %s ", ml.summary.Line())
	if ml.filter != "" {
		title = fmt.Sprintf(" 受信箱  %s  [%s] ", ml.summary.Line(), ml.filter)
	}
	ml.SetTitle(title)

	if row < 1 || row > len(ml.messages) {
		row = 1
	}
	if len(ml.messages) > 0 {
		ml.Select(row, 0)
	}
}

// SelectedID returns the message id under the cursor, or 0.
func (ml *MessageList) SelectedID() int {
	row, _ := ml.GetSelection()
	idx := row - 1 // header row
	if idx < 0 || idx >= len(ml.messages) {
		return 0
	}
	return ml.messages[idx].ID
}
