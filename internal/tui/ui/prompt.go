package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// PromptMode indicates what the prompt input drives.
type PromptMode int

const (
	// PromptCommand runs a : command on Enter.
	PromptCommand PromptMode = iota
	// PromptSearch live-filters as the user types (debounced upstream).
	PromptSearch
)

// Prompt is a command/search input bar.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	mode     PromptMode
	onSubmit func(mode PromptMode, text string)
	onChange func(text string)
	onCancel func()
}

// NewPrompt creates a new prompt input bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{
		InputField: input,
		theme:      theme,
	}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if p.onSubmit != nil {
				p.onSubmit(p.mode, p.GetText())
			}
			if p.mode == PromptCommand {
				p.SetText("")
			}
		case tcell.KeyEscape:
			p.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})

	input.SetChangedFunc(func(text string) {
		if p.mode == PromptSearch && p.onChange != nil {
			p.onChange(text)
		}
	})

	return p
}

// SetOnSubmit sets the callback for Enter.
func (p *Prompt) SetOnSubmit(fn func(mode PromptMode, text string)) {
	p.onSubmit = fn
}

// SetOnChange sets the callback fired on every keystroke in search mode.
func (p *Prompt) SetOnChange(fn func(text string)) {
	p.onChange = fn
}

// SetOnCancel sets the callback for Escape.
func (p *Prompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Activate shows the prompt in the given mode.
func (p *Prompt) Activate(mode PromptMode) {
	p.mode = mode
	p.SetText("")
	switch mode {
	case PromptCommand:
		p.SetLabel(":")
		p.SetTitle(" Command ")
	case PromptSearch:
		p.SetLabel("/")
		p.SetTitle(" Search ")
	}
}

// Mode returns the current prompt mode.
func (p *Prompt) Mode() PromptMode {
	return p.mode
}
