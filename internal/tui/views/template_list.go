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

// TemplateList is the QA template manager table.
type TemplateList struct {
	*tview.Table
	theme     *ui.Theme
	templates []api.QATemplate
	filter    string
}

// NewTemplateList creates the template manager table.
func NewTemplateList(theme *ui.Theme) *TemplateList {
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
	table.SetTitle(" 定型文 ")
	table.SetTitleColor(theme.TitleColor)

	return &TemplateList{Table: table, theme: theme}
}

// Name implements Component.
func (tl *TemplateList) Name() string { return "templates" }

// Init implements Component.
func (tl *TemplateList) Init() {}

// Start implements Component.
func (tl *TemplateList) Start() {}

// Stop implements Component.
func (tl *TemplateList) Stop() {}

// Hints implements Component.
func (tl *TemplateList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "n", Description: "新規作成"},
		{Key: "Enter", Description: "編集"},
		{Key: "d", Description: "削除"},
		{Key: "p", Description: "販路で絞り込み"},
		{Key: "/", Description: "検索"},
		{Key: "Esc", Description: "受信箱に戻る"},
	}
}

// Update replaces the rendered rows.
func (tl *TemplateList) Update(templates []api.QATemplate, filterLabel string) {
	tl.templates = templates
	tl.filter = filterLabel
	tl.render()
}

func (tl *TemplateList) render() {
	row, _ := tl.GetSelection()
	tl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" カテゴリ", 0},
		{" サブカテゴリ", 0},
		{" 販路", 0},
		{" 定型文", 2},
		{" 備考", 1},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(tl.theme.TableHeaderFg).
			SetBackgroundColor(tl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		tl.SetCell(0, col, cell)
	}

	for i, t := range tl.templates {
		r := i + 1
		category := triage.Category(t.CategoryKey).Label()
		platform := triage.Platform(t.Platform).Label()
		answer := render.Preview(sanitizeForTerminal(t.AnswerTemplate), render.ListPreviewWidth)
		notes := render.Preview(sanitizeForTerminal(t.StaffNotes), render.ListPreviewWidth)

		tl.SetCell(r, 0, tview.NewTableCell(" "+category).SetTextColor(tl.theme.FgColor))
		tl.SetCell(r, 1, tview.NewTableCell(" "+tview.Escape(t.Subcategory)).SetTextColor(tl.theme.FgColor))
		tl.SetCell(r, 2, tview.NewTableCell(" "+platform).SetTextColor(tl.theme.FgColor))
		tl.SetCell(r, 3, tview.NewTableCell(" "+tview.Escape(answer)).SetExpansion(2).SetTextColor(tl.theme.FgColor))
		tl.SetCell(r, 4, tview.NewTableCell(" "+tview.Escape(notes)).SetExpansion(1).SetTextColor(tl.theme.CounterColor))
	}

	title := fmt.Sprintf(" 定型文 (%d) ", len(tl.templates))
	if tl.filter != "" {
		title = fmt.Sprintf(" 定型文 (%d)  [%s] ", len(tl.templates), tl.filter)
	}
	tl.SetTitle(title)

	if row < 1 || row > len(tl.templates) {
		row = 1
	}
	if len(tl.templates) > 0 {
		tl.Select(row, 0)
	}
}

// Selected returns the template under the cursor.
func (tl *TemplateList) Selected() (api.QATemplate, bool) {
	row, _ := tl.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(tl.templates) {
		return api.QATemplate{}, false
	}
	return tl.templates[idx], true
}
