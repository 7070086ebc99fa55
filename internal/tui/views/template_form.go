package views

import (
	"github.com/rivo/tview"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/triage"
	"github.com/ymaeda/kotae/internal/tui/ui"
)

// TemplateForm is the shared create/edit form for QA templates. A zero
// template id means create; anything else updates that row.
type TemplateForm struct {
	*tview.Form
	theme *ui.Theme
	id    int

	onSave   func(id int, in api.TemplateInput)
	onCancel func()
}

// NewTemplateForm creates the template editor form.
func NewTemplateForm(theme *ui.Theme) *TemplateForm {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetTitleColor(theme.TitleColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetFieldBackgroundColor(theme.TableHeaderBg)
	form.SetFieldTextColor(theme.FgColor)
	form.SetButtonBackgroundColor(theme.TableCursorBg)
	form.SetButtonTextColor(theme.TableCursorFg)

	tf := &TemplateForm{Form: form, theme: theme}
	tf.build(nil)
	return tf
}

// Name implements Component.
func (tf *TemplateForm) Name() string { return "template-form" }

// Init implements Component.
func (tf *TemplateForm) Init() {}

// Start implements Component.
func (tf *TemplateForm) Start() {}

// Stop implements Component.
func (tf *TemplateForm) Stop() {}

// Hints implements Component.
func (tf *TemplateForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "次の項目"},
		{Key: "Esc", Description: "キャンセル"},
	}
}

// SetOnSave registers the save callback.
func (tf *TemplateForm) SetOnSave(fn func(id int, in api.TemplateInput)) {
	tf.onSave = fn
}

// SetOnCancel registers the cancel callback.
func (tf *TemplateForm) SetOnCancel(fn func()) {
	tf.onCancel = fn
}

// Edit loads an existing template into the form.
func (tf *TemplateForm) Edit(t api.QATemplate) {
	tf.id = t.ID
	tf.build(&t)
	tf.SetTitle(" 定型文を編集 ")
}

// NewTemplate resets the form for creation.
func (tf *TemplateForm) NewTemplate() {
	tf.id = 0
	tf.build(nil)
	tf.SetTitle(" 定型文を作成 ")
}

func (tf *TemplateForm) build(t *api.QATemplate) {
	tf.Clear(true)

	categoryIdx := len(triage.Categories()) - 1 // other
	platformIdx := 0                            // common
	subcategory, answer, notes := "", "", ""
	if t != nil {
		for i, c := range triage.Categories() {
			if string(c) == t.CategoryKey {
				categoryIdx = i
			}
		}
		for i, p := range triage.Platforms() {
			if string(p) == t.Platform {
				platformIdx = i
			}
		}
		subcategory = t.Subcategory
		answer = t.AnswerTemplate
		notes = t.StaffNotes
	}

	var categoryLabels, platformLabels []string
	for _, c := range triage.Categories() {
		categoryLabels = append(categoryLabels, c.Label())
	}
	for _, p := range triage.Platforms() {
		platformLabels = append(platformLabels, p.Label())
	}

	tf.AddDropDown("カテゴリ", categoryLabels, categoryIdx, nil)
	tf.AddInputField("サブカテゴリ", subcategory, 40, nil, nil)
	tf.AddDropDown("販路", platformLabels, platformIdx, nil)
	tf.AddTextArea("定型文", answer, 0, 8, 0, nil)
	tf.AddInputField("備考", notes, 0, nil, nil)

	tf.AddButton("保存", func() {
		if tf.onSave != nil {
			tf.onSave(tf.id, tf.input())
		}
	})
	tf.AddButton("キャンセル", func() {
		if tf.onCancel != nil {
			tf.onCancel()
		}
	})
}

func (tf *TemplateForm) input() api.TemplateInput {
	catIdx, _ := tf.GetFormItemByLabel("カテゴリ").(*tview.DropDown).GetCurrentOption()
	platIdx, _ := tf.GetFormItemByLabel("販路").(*tview.DropDown).GetCurrentOption()

	cats, plats := triage.Categories(), triage.Platforms()
	if catIdx < 0 || catIdx >= len(cats) {
		catIdx = len(cats) - 1
	}
	if platIdx < 0 || platIdx >= len(plats) {
		platIdx = 0
	}
	category := cats[catIdx]

	return api.TemplateInput{
		CategoryKey:    string(category),
		Category:       category.Label(),
		Subcategory:    tf.GetFormItemByLabel("サブカテゴリ").(*tview.InputField).GetText(),
		Platform:       string(plats[platIdx]),
		AnswerTemplate: tf.GetFormItemByLabel("定型文").(*tview.TextArea).GetText(),
		StaffNotes:     tf.GetFormItemByLabel("備考").(*tview.InputField).GetText(),
	}
}
