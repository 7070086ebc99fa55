package ui

import (
	"github.com/rivo/tview"
)

// Confirm builds a yes/no modal. onResult receives true only when the
// user explicitly confirms; cancel and Escape count as declined, and a
// declined confirmation must issue no network call.
func Confirm(theme *Theme, text, okLabel string, onResult func(confirmed bool)) *tview.Modal {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{okLabel, "キャンセル"}).
		SetDoneFunc(confirmDone(onResult))
	modal.SetBackgroundColor(theme.BgColor)
	modal.SetTextColor(theme.FgColor)
	modal.SetBorderColor(theme.BorderFocusColor)
	return modal
}

// confirmDone maps a modal button press to the confirmed flag. Index 0
// is the affirmative button; the cancel button (1) and Escape (-1)
// decline.
func confirmDone(onResult func(confirmed bool)) func(buttonIndex int, buttonLabel string) {
	return func(buttonIndex int, _ string) {
		onResult(buttonIndex == 0)
	}
}
