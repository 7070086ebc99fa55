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

// ReplyPanel is the action area under the thread. Exactly one of four
// layouts is visible at a time, matching the derived workflow state of
// the selected message.
type ReplyPanel struct {
	*tview.Flex
	theme *ui.Theme
	state triage.PanelState

	categories *tview.List
	templates  *tview.List
	editor     *tview.TextArea
	category   *tview.DropDown
	notice     *tview.TextView

	templateItems []api.QATemplate
	showTemplates bool

	onPickCategory func(triage.Category)
	onUseTemplate  func(api.QATemplate)
}

// NewReplyPanel creates the reply workflow panel.
func NewReplyPanel(theme *ui.Theme) *ReplyPanel {
	rp := &ReplyPanel{
		Flex:  tview.NewFlex(),
		theme: theme,
	}
	rp.SetBackgroundColor(theme.BgColor)

	rp.categories = tview.NewList().ShowSecondaryText(false)
	rp.categories.SetBorder(true)
	rp.categories.SetBorderColor(theme.BorderColor)
	rp.categories.SetBackgroundColor(theme.BgColor)
	rp.categories.SetMainTextColor(theme.FgColor)
	rp.categories.SetSelectedTextColor(theme.TableCursorFg)
	rp.categories.SetSelectedBackgroundColor(theme.TableCursorBg)
	rp.categories.SetTitle(" カテゴリ ")
	rp.categories.SetTitleColor(theme.TitleColor)
	for _, c := range triage.Categories() {
		rp.categories.AddItem(c.Label(), "", 0, nil)
	}
	rp.categories.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		if rp.onPickCategory != nil {
			rp.onPickCategory(triage.Categories()[i])
		}
	})

	rp.templates = tview.NewList().ShowSecondaryText(true)
	rp.templates.SetBorder(true)
	rp.templates.SetBorderColor(theme.BorderColor)
	rp.templates.SetBackgroundColor(theme.BgColor)
	rp.templates.SetMainTextColor(theme.FgColor)
	rp.templates.SetSecondaryTextColor(theme.CounterColor)
	rp.templates.SetSelectedTextColor(theme.TableCursorFg)
	rp.templates.SetSelectedBackgroundColor(theme.TableCursorBg)
	rp.templates.SetTitleColor(theme.TitleColor)
	rp.templates.SetSelectedFunc(func(i int, _, _ string, _ rune) {
		if rp.onUseTemplate != nil && i >= 0 && i < len(rp.templateItems) {
			rp.onUseTemplate(rp.templateItems[i])
		}
	})

	rp.editor = tview.NewTextArea()
	rp.editor.SetBorder(true)
	rp.editor.SetBorderColor(theme.BorderColor)
	rp.editor.SetBackgroundColor(theme.BgColor)
	rp.editor.SetTextStyle(tcell.StyleDefault.
		Foreground(theme.FgColor).
		Background(theme.BgColor))
	rp.editor.SetTitleColor(theme.TitleColor)

	rp.category = tview.NewDropDown().SetLabel(" カテゴリ: ")
	rp.category.SetBackgroundColor(theme.BgColor)
	rp.category.SetLabelColor(theme.MenuKeyColor)
	rp.category.SetFieldBackgroundColor(theme.BgColor)
	rp.category.SetFieldTextColor(theme.FgColor)
	var labels []string
	for _, c := range triage.Categories() {
		labels = append(labels, c.Label())
	}
	rp.category.SetOptions(labels, nil)

	rp.notice = tview.NewTextView().SetDynamicColors(true)
	rp.notice.SetBorder(true)
	rp.notice.SetBorderColor(theme.BorderColor)
	rp.notice.SetBackgroundColor(theme.BgColor)
	rp.notice.SetTextColor(theme.FgColor)
	rp.notice.SetTitleColor(theme.TitleColor)

	return rp
}

// SetOnPickCategory registers the category-picker callback.
func (rp *ReplyPanel) SetOnPickCategory(fn func(triage.Category)) {
	rp.onPickCategory = fn
}

// SetOnUseTemplate registers the template-card callback.
func (rp *ReplyPanel) SetOnUseTemplate(fn func(api.QATemplate)) {
	rp.onUseTemplate = fn
}

// State returns the workflow state last shown.
func (rp *ReplyPanel) State() triage.PanelState { return rp.state }

// ShowNoResponse renders the untouched-message layout: category picker
// on the left, a free-form direct reply editor on the right. Editor
// contents survive re-renders; the caller clears them when a different
// thread opens.
func (rp *ReplyPanel) ShowNoResponse() {
	rp.state = triage.PanelNoResponse
	rp.showTemplates = false
	rp.editor.SetTitle(" 直接返信 (Ctrl-S 送信 / g AI生成 / h 対応済) ")
	rp.relayout()
}

// TemplateEditorText is the edit-buffer content produced by picking a
// template card. Staff notes follow the body under a スタッフ向けメモ label
// so they are visible while editing.
func TemplateEditorText(t api.QATemplate) string {
	if t.StaffNotes == "" {
		return t.AnswerTemplate
	}
	return t.AnswerTemplate + "\n\n【スタッフ向けメモ】" + t.StaffNotes
}

// ShowTemplateCards swaps the category picker for the canned answers of
// the picked category. An empty list still renders, with a hint that no
// template matched.
func (rp *ReplyPanel) ShowTemplateCards(templates []api.QATemplate, category triage.Category) {
	rp.state = triage.PanelNoResponse
	rp.showTemplates = true
	rp.templateItems = templates
	rp.templates.Clear()
	rp.templates.SetTitle(fmt.Sprintf(" 定型文: %s (%d) ", category.Label(), len(templates)))
	if len(templates) == 0 {
		rp.templates.AddItem("定型文がありません", "Esc でカテゴリ選択に戻る", 0, nil)
	}
	for _, t := range templates {
		main := render.Preview(sanitizeForTerminal(t.AnswerTemplate), render.TemplatePreviewWidth)
		second := t.Subcategory
		if t.StaffNotes != "" {
			if second != "" {
				second += "  |  "
			}
			second += render.Preview(sanitizeForTerminal(t.StaffNotes), render.ListPreviewWidth)
		}
		rp.templates.AddItem(tview.Escape(main), tview.Escape(second), 0, nil)
	}
	rp.relayout()
}

// ShowCategories returns from the template cards to the category picker.
func (rp *ReplyPanel) ShowCategories() {
	rp.showTemplates = false
	rp.relayout()
}

// TemplatesVisible reports whether template cards are on screen.
func (rp *ReplyPanel) TemplatesVisible() bool {
	return rp.state == triage.PanelNoResponse && rp.showTemplates
}

// ShowDraft renders the pending-draft layout: category override dropdown
// above an editor pre-filled with the newest unsent draft.
func (rp *ReplyPanel) ShowDraft(draft *api.Response) {
	rp.state = triage.PanelDraftPending
	rp.editor.SetText(draft.DraftBody, false)
	title := " AI下書き (Ctrl-S 送信 / Ctrl-D 破棄) "
	if draft.ModelUsed != "" {
		title = fmt.Sprintf(" AI下書き %s (Ctrl-S 送信 / Ctrl-D 破棄) ", draft.ModelUsed)
	}
	rp.editor.SetTitle(title)
	rp.selectCategory(draft.AISuggestedCategory)
	rp.relayout()
}

// ShowHandled renders the terminal resolved layout.
func (rp *ReplyPanel) ShowHandled() {
	rp.state = triage.PanelHandled
	rp.notice.Clear()
	rp.notice.SetTitle(" 対応済 ")
	fmt.Fprintf(rp.notice, "\n この問い合わせは対応済みです。[%s]r[-] で再対応に戻せます。",
		ui.ColorName(rp.theme.MenuKeyColor))
	rp.relayout()
}

// ShowSentOnly renders the replied layout. Regeneration is offered but
// the caller gates it behind a cost confirmation.
func (rp *ReplyPanel) ShowSentOnly(lastSentAt string) {
	rp.state = triage.PanelSentOnly
	rp.notice.Clear()
	rp.notice.SetTitle(" 送信済 ")
	when := render.FormatTime(lastSentAt)
	if when != "" {
		fmt.Fprintf(rp.notice, "\n %s に回答を送信済みです。", when)
	} else {
		fmt.Fprint(rp.notice, "\n 回答を送信済みです。")
	}
	fmt.Fprintf(rp.notice, "[%s]g[-] で追加の下書きを再生成できます（AI利用料が発生します）。",
		ui.ColorName(rp.theme.MenuKeyColor))
	rp.relayout()
}

func (rp *ReplyPanel) relayout() {
	rp.Clear()
	switch rp.state {
	case triage.PanelNoResponse:
		rp.SetDirection(tview.FlexColumn)
		if rp.showTemplates {
			rp.AddItem(rp.templates, 0, 1, true)
		} else {
			rp.AddItem(rp.categories, 30, 0, true)
		}
		rp.AddItem(rp.editor, 0, 2, false)
	case triage.PanelDraftPending:
		rp.SetDirection(tview.FlexRow)
		rp.AddItem(rp.category, 1, 0, false)
		rp.AddItem(rp.editor, 0, 1, true)
	default:
		rp.SetDirection(tview.FlexRow)
		rp.AddItem(rp.notice, 0, 1, true)
	}
}

// EditorText returns the editor contents.
func (rp *ReplyPanel) EditorText() string { return rp.editor.GetText() }

// SetEditorText replaces the editor contents, cursor at the end.
func (rp *ReplyPanel) SetEditorText(s string) { rp.editor.SetText(s, true) }

// Editor exposes the text area for focus management.
func (rp *ReplyPanel) Editor() *tview.TextArea { return rp.editor }

// SelectedCategory returns the category key chosen in the dropdown.
func (rp *ReplyPanel) SelectedCategory() string {
	i, _ := rp.category.GetCurrentOption()
	cats := triage.Categories()
	if i < 0 || i >= len(cats) {
		return ""
	}
	return string(cats[i])
}

func (rp *ReplyPanel) selectCategory(key string) {
	for i, c := range triage.Categories() {
		if string(c) == key {
			rp.category.SetCurrentOption(i)
			return
		}
	}
	rp.category.SetCurrentOption(len(triage.Categories()) - 1) // other
}

// FocusTargets lists the panel's focusable widgets for the current
// layout, in Tab order.
func (rp *ReplyPanel) FocusTargets() []tview.Primitive {
	switch rp.state {
	case triage.PanelNoResponse:
		if rp.showTemplates {
			return []tview.Primitive{rp.templates, rp.editor}
		}
		return []tview.Primitive{rp.categories, rp.editor}
	case triage.PanelDraftPending:
		return []tview.Primitive{rp.editor, rp.category}
	default:
		return []tview.Primitive{rp.notice}
	}
}

// Hints returns the key hints for the current workflow state.
func (rp *ReplyPanel) Hints() []ui.MenuHint {
	switch rp.state {
	case triage.PanelNoResponse:
		return []ui.MenuHint{
			{Key: "Enter", Description: "カテゴリ/定型文を選択"},
			{Key: "Ctrl-S", Description: "直接送信"},
			{Key: "g", Description: "AI下書き生成"},
			{Key: "h", Description: "対応済にする"},
		}
	case triage.PanelDraftPending:
		return []ui.MenuHint{
			{Key: "Ctrl-S", Description: "送信"},
			{Key: "Ctrl-D", Description: "下書きを破棄"},
		}
	case triage.PanelHandled:
		return []ui.MenuHint{
			{Key: "r", Description: "再対応に戻す"},
		}
	case triage.PanelSentOnly:
		return []ui.MenuHint{
			{Key: "g", Description: "下書きを再生成"},
		}
	}
	return nil
}
