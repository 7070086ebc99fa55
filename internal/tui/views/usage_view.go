package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/render"
	"github.com/ymaeda/kotae/internal/tui/ui"
)

// UsageView is the monthly AI usage dashboard: one row per account plus
// a bold total row. The JPY column is a fixed-rate approximation of the
// backend's USD figure.
type UsageView struct {
	*tview.Table
	theme *ui.Theme
	usage *api.Usage
}

// NewUsageView creates the usage dashboard table.
func NewUsageView(theme *ui.Theme) *UsageView {
	table := tview.NewTable().
		SetSelectable(false, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetTitle(" AI利用状況 ")
	table.SetTitleColor(theme.TitleColor)

	return &UsageView{Table: table, theme: theme}
}

// Name implements Component.
func (uv *UsageView) Name() string { return "usage" }

// Init implements Component.
func (uv *UsageView) Init() {}

// Start implements Component.
func (uv *UsageView) Start() {}

// Stop implements Component.
func (uv *UsageView) Stop() {}

// Hints implements Component.
func (uv *UsageView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "h/l", Description: "前月 / 翌月"},
		{Key: "Esc", Description: "受信箱に戻る"},
	}
}

// Update rerenders the dashboard for a freshly loaded month.
func (uv *UsageView) Update(usage *api.Usage) {
	uv.usage = usage
	uv.render()
}

func (uv *UsageView) render() {
	uv.Clear()
	if uv.usage == nil {
		return
	}

	headers := []struct {
		text  string
		align int
	}{
		{" アカウント", tview.AlignLeft},
		{"生成回数", tview.AlignRight},
		{"入力トークン", tview.AlignRight},
		{"出力トークン", tview.AlignRight},
		{"コスト(USD)", tview.AlignRight},
		{"概算(JPY)", tview.AlignRight},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(uv.theme.TableHeaderFg).
			SetBackgroundColor(uv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetAlign(h.align).
			SetExpansion(1)
		uv.SetCell(0, col, cell)
	}

	row := 1
	for _, acct := range uv.usage.Accounts {
		uv.setRow(row, acct.AccountName, acct, uv.theme.FgColor, 0)
		row++
	}
	total := uv.usage.Total
	uv.setRow(row, "合計", total, uv.theme.CounterColor, tcell.AttrBold)

	uv.SetTitle(fmt.Sprintf(" AI利用状況 %d年%d月 ", uv.usage.Year, uv.usage.Month))
}

func (uv *UsageView) setRow(row int, name string, r api.UsageRow, color tcell.Color, attrs tcell.AttrMask) {
	cells := []struct {
		text  string
		align int
	}{
		{" " + tview.Escape(name), tview.AlignLeft},
		{fmt.Sprintf("%d", r.Count), tview.AlignRight},
		{render.FormatTokens(r.InputTokens), tview.AlignRight},
		{render.FormatTokens(r.OutputTokens), tview.AlignRight},
		{render.FormatUSD(r.CostUSD), tview.AlignRight},
		{render.FormatJPY(r.CostUSD), tview.AlignRight},
	}
	for col, c := range cells {
		uv.SetCell(row, col, tview.NewTableCell(c.text).
			SetTextColor(color).
			SetAttributes(attrs).
			SetAlign(c.align).
			SetExpansion(1))
	}
}
