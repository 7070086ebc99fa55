package views

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/ymaeda/kotae/internal/tui/ui"
)

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates the help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" ヘルプ ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{TextView: tv, theme: theme}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "help" }

// Init implements Component.
func (hv *HelpView) Init() {}

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "戻る"},
	}
}

func (hv *HelpView) render() {
	kc := fmt.Sprintf("#%06x", hv.theme.MenuKeyColor.Hex())

	help := fmt.Sprintf(`
  [::b]グローバル[-:-:-]

  [%s]:[-:-:-]       コマンドモード      [%s]Esc[-:-:-]    キャンセル / 戻る
  [%s]/[-:-:-]       検索                [%s]?[-:-:-]      ヘルプ
  [%s]q[-:-:-]       終了                [%s]Ctrl-C[-:-:-] 即時終了

  [::b]受信箱[-:-:-]

  [%s]Enter[-:-:-]   スレッドを開く      [%s]f[-:-:-]      新着メッセージ取得
  [%s]j/Down[-:-:-]  下へ                [%s]k/Up[-:-:-]   上へ

  [::b]スレッド[-:-:-]

  [%s]g[-:-:-]       AI下書き生成 / 再生成
  [%s]Ctrl-S[-:-:-]  送信（下書きまたは直接入力）
  [%s]Ctrl-D[-:-:-]  下書きを破棄
  [%s]h[-:-:-]       対応済にする        [%s]r[-:-:-]      再対応に戻す
  [%s]Tab[-:-:-]     パネル内フォーカス移動

  [::b]定型文管理[-:-:-]

  [%s]n[-:-:-]       新規作成            [%s]Enter[-:-:-]  編集
  [%s]d[-:-:-]       削除                [%s]p[-:-:-]      販路で絞り込み

  [::b]コマンド (: モード)[-:-:-]

  [%s]:inbox[-:-:-]               受信箱へ
  [%s]:templates[-:-:-]           定型文管理へ
  [%s]:usage [年 月][-:-:-]       AI利用状況へ
  [%s]:account <名前>[-:-:-]      アカウントで絞り込み
  [%s]:channel <販路>[-:-:-]      販路で絞り込み
  [%s]:status <状態>[-:-:-]       状態で絞り込み (new / ai_drafted / sent ...)
  [%s]:clear[-:-:-]               絞り込み解除
  [%s]:fetch[-:-:-]               新着メッセージ取得
  [%s]:handled-all[-:-:-]         表示中の新着を一括対応済
  [%s]:quit[-:-:-] / [%s]:q[-:-:-]        終了
`,
		kc, kc, kc, kc, kc, kc,
		kc, kc, kc, kc,
		kc, kc, kc, kc, kc, kc,
		kc, kc, kc, kc,
		kc, kc, kc, kc, kc, kc, kc, kc, kc, kc, kc,
	)

	_, _ = fmt.Fprint(hv, help)
}
