// Package tui implements the terminal client: a k9s-style shell with a
// header (server info, key hints, logo), breadcrumb navigation, a
// command/search prompt and stacked content pages.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/config"
	"github.com/ymaeda/kotae/internal/triage"
	"github.com/ymaeda/kotae/internal/tui/keys"
	"github.com/ymaeda/kotae/internal/tui/model"
	"github.com/ymaeda/kotae/internal/tui/ui"
	"github.com/ymaeda/kotae/internal/tui/views"
)

const searchDebounce = 300 * time.Millisecond

// App is the TUI application shell.
type App struct {
	app      *tview.Application
	pages    *ui.Pages
	vm       *model.ViewModel
	cfg      *config.Config
	log      *zap.Logger
	registry *keys.Registry
	theme    *ui.Theme

	logo       *ui.Logo
	serverInfo *ui.ServerInfo
	menu       *ui.Menu
	crumbs     *ui.Crumbs
	prompt     *ui.Prompt
	flash      *ui.FlashModel
	flashBar   *ui.FlashBar

	inbox     *views.MessageList
	thread    *views.ThreadView
	panel     *views.ReplyPanel
	templates *views.TemplateList
	form      *views.TemplateForm
	usage     *views.UsageView
	help      *views.HelpView
	statusBar *views.StatusBar

	root         *tview.Flex
	promptActive bool
	debouncer    *ui.Debouncer
	lastRefresh  time.Time

	usageYear  int
	usageMonth int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp wires the shell around a view model.
func NewApp(vm *model.ViewModel, cfg *config.Config, log *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	now := time.Now()
	a := &App{
		app:      tview.NewApplication(),
		pages:    ui.NewPages(),
		vm:       vm,
		cfg:      cfg,
		log:      log,
		registry: keys.NewRegistry(),
		theme:    theme,

		logo:       ui.NewLogo(theme),
		serverInfo: ui.NewServerInfo(theme),
		menu:       ui.NewMenu(theme),
		crumbs:     ui.NewCrumbs(theme),
		prompt:     ui.NewPrompt(theme),
		flash:      ui.NewFlashModel(),
		flashBar:   ui.NewFlashBar(theme),

		inbox:     views.NewMessageList(theme),
		thread:    views.NewThreadView(theme),
		panel:     views.NewReplyPanel(theme),
		templates: views.NewTemplateList(theme),
		form:      views.NewTemplateForm(theme),
		usage:     views.NewUsageView(theme),
		help:      views.NewHelpView(theme),
		statusBar: views.NewStatusBar(),

		debouncer:  ui.NewDebouncer(searchDebounce),
		usageYear:  now.Year(),
		usageMonth: int(now.Month()),

		ctx:    ctx,
		cancel: cancel,
	}

	a.statusBar.SetServer(cfg.ServerURL)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'q',
		Description: "q 終了", Visible: true,
		Handler: func() { a.Stop() },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?',
		Description: "? ヘルプ", Visible: true,
		Handler: func() { a.pushPage("help") },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':',
		Description: ": コマンド", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '/',
		Description: "/ 検索", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptSearch) },
	})

	a.registry.AddView("inbox", &keys.Action{
		Key: tcell.KeyRune, Rune: 'f',
		Description: "f 新着取得", Visible: true,
		Handler: func() { a.fetchNew() },
	})

	a.registry.AddView("thread", &keys.Action{
		Key: tcell.KeyRune, Rune: 'g',
		Description: "g AI生成", Visible: true,
		Handler: func() { a.generate() },
	})
	a.registry.AddView("thread", &keys.Action{
		Key: tcell.KeyRune, Rune: 'h',
		Description: "h 対応済", Visible: true,
		Handler: func() { a.markHandled() },
	})
	a.registry.AddView("thread", &keys.Action{
		Key: tcell.KeyRune, Rune: 'r',
		Description: "r 再対応", Visible: true,
		Handler: func() { a.reopen() },
	})

	a.registry.AddView("templates", &keys.Action{
		Key: tcell.KeyRune, Rune: 'n',
		Description: "n 新規", Visible: true,
		Handler: func() { a.newTemplate() },
	})
	a.registry.AddView("templates", &keys.Action{
		Key: tcell.KeyRune, Rune: 'd',
		Description: "d 削除", Visible: true,
		Handler: func() { a.deleteTemplate() },
	})
	a.registry.AddView("templates", &keys.Action{
		Key: tcell.KeyRune, Rune: 'p',
		Description: "p 販路", Visible: true,
		Handler: func() { a.cycleTemplatePlatform() },
	})

	a.registry.AddView("usage", &keys.Action{
		Key: tcell.KeyRune, Rune: 'h',
		Description: "h 前月", Visible: true,
		Handler: func() { a.shiftUsageMonth(-1) },
	})
	a.registry.AddView("usage", &keys.Action{
		Key: tcell.KeyRune, Rune: 'l',
		Description: "l 翌月", Visible: true,
		Handler: func() { a.shiftUsageMonth(1) },
	})
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		a.syncMenu()
	})

	a.inbox.SetSelectedFunc(func(row, col int) {
		if id := a.inbox.SelectedID(); id != 0 {
			a.openThread(id)
		}
	})

	a.templates.SetSelectedFunc(func(row, col int) {
		if t, ok := a.templates.Selected(); ok {
			a.form.Edit(t)
			a.pushPage("template-form")
		}
	})

	a.panel.SetOnPickCategory(func(cat triage.Category) {
		go func() {
			if err := a.vm.LoadPanelTemplates(a.ctx, cat); err != nil {
				a.flashErr(err)
				return
			}
			a.queue(func() {
				a.refreshThread()
				a.focusPanel()
			})
		}()
	})

	a.panel.SetOnUseTemplate(func(t api.QATemplate) {
		a.panel.SetEditorText(views.TemplateEditorText(t))
		a.app.SetFocus(a.panel.Editor())
	})

	a.form.SetOnSave(func(id int, in api.TemplateInput) {
		go func() {
			if _, err := a.vm.SaveTemplate(a.ctx, id, in); err != nil {
				a.flashErr(err)
				return
			}
			a.queue(func() {
				a.flashInfo("定型文を保存しました")
				a.popPage()
				a.refreshTemplates()
			})
		}()
	})
	a.form.SetOnCancel(func() { a.popPage() })

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand && text != "" {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnChange(func(text string) {
		// The timer fires off the event loop, so hop back onto it.
		a.debouncer.Trigger(func() {
			a.queue(func() { a.applySearch(text) })
		})
	})
	a.prompt.SetOnCancel(func() {
		a.debouncer.Cancel()
		a.hidePrompt()
		a.applySearch("")
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.serverInfo, 0, 1, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 26, 0, false)

	threadPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 3, false).
		AddItem(a.panel, 0, 2, true)

	a.pages.AddPage("inbox", a.inbox, true, true)
	a.pages.AddPage("thread", threadPage, true, false)
	a.pages.AddPage("templates", a.templates, true, false)
	a.pages.AddPage("template-form", a.form, true, false)
	a.pages.AddPage("usage", a.usage, true, false)
	a.pages.AddPage("help", a.help, true, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.handleKey)
	a.pages.Reset("inbox")
}

func (a *App) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if a.pages.HasPage("confirm") {
		return ev
	}
	page := a.pages.Current()
	if a.promptActive {
		return ev
	}

	if page == "thread" {
		switch ev.Key() {
		case tcell.KeyCtrlS:
			a.sendCurrent()
			return nil
		case tcell.KeyCtrlD:
			a.discardDraft()
			return nil
		case tcell.KeyTab:
			a.cyclePanelFocus()
			return nil
		}
	}

	if ev.Key() == tcell.KeyEscape {
		if a.handleEscape(page) {
			return nil
		}
		return ev
	}

	// Text widgets consume runes; shortcuts only fire outside them.
	switch a.app.GetFocus().(type) {
	case *tview.InputField, *tview.TextArea, *tview.DropDown, *tview.Button, *tview.Checkbox:
		return ev
	}

	if a.registry.HandleEvent(page, ev) {
		return nil
	}
	return ev
}

func (a *App) handleEscape(page string) bool {
	switch page {
	case "thread":
		if a.panel.TemplatesVisible() {
			a.vm.ClearPanelTemplates()
			a.panel.ShowCategories()
			a.focusPanel()
			return true
		}
		a.closeThread()
		return true
	case "templates", "template-form", "usage", "help":
		a.popPage()
		return true
	case "inbox":
		if a.vm.Filter().Search != "" {
			a.applySearch("")
			return true
		}
	}
	return false
}

// Run loads the initial inbox and starts the event loop.
func (a *App) Run() error {
	go func() {
		if err := a.vm.LoadAccounts(a.ctx); err != nil {
			a.flashErr(err)
		}
		if err := a.vm.LoadMessages(a.ctx); err != nil {
			a.flashErr(err)
		}
		a.queue(func() {
			a.lastRefresh = time.Now()
			a.refreshInbox()
			a.app.SetFocus(a.inbox)
		})
		a.startPollLoop()
	}()

	return a.app.Run()
}

// Stop shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// startPollLoop reloads the inbox in the background at the configured
// interval. The open thread is never reloaded behind the user's back.
func (a *App) startPollLoop() {
	interval := time.Duration(a.cfg.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.queue(func() { a.statusBar.SetPolling(true) })
				errAcc := a.vm.LoadAccounts(a.ctx)
				errMsg := a.vm.LoadMessages(a.ctx)
				a.queue(func() {
					a.statusBar.SetPolling(false)
					if errAcc != nil || errMsg != nil {
						a.flash.Warn("バックグラウンド更新に失敗しました")
					} else {
						a.lastRefresh = time.Now()
					}
					a.refreshInbox()
					a.flashBar.Update(a.flash.Get())
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// queue marshals UI mutations onto the tview event loop.
func (a *App) queue(fn func()) {
	a.app.QueueUpdateDraw(fn)
}

func (a *App) flashErr(err error) {
	a.log.Warn("action failed", zap.Error(err))
	a.queue(func() {
		a.flash.Err(err)
		a.flashBar.Update(a.flash.Get())
	})
}

func (a *App) flashInfo(msg string) {
	a.flash.Info(msg)
	a.flashBar.Update(a.flash.Get())
}

// --- navigation ---

func (a *App) pushPage(name string) {
	if a.pages.Current() == name {
		return
	}
	a.pages.Push(name)
	a.app.SetFocus(a.focusForPage(name))
}

func (a *App) popPage() {
	a.pages.Pop()
	name := a.pages.Current()
	if name == "" {
		name = "inbox"
		a.pages.Reset(name)
	}
	a.app.SetFocus(a.focusForPage(name))
	if name == "inbox" {
		a.refreshInbox()
	}
}

func (a *App) focusForPage(name string) tview.Primitive {
	switch name {
	case "thread":
		targets := a.panel.FocusTargets()
		if len(targets) > 0 {
			return targets[0]
		}
		return a.thread
	case "templates":
		return a.templates
	case "template-form":
		return a.form
	case "usage":
		return a.usage
	case "help":
		return a.help
	default:
		return a.inbox
	}
}

func (a *App) focusPanel() {
	if targets := a.panel.FocusTargets(); len(targets) > 0 {
		a.app.SetFocus(targets[0])
	}
}

func (a *App) cyclePanelFocus() {
	targets := a.panel.FocusTargets()
	if len(targets) == 0 {
		return
	}
	focused := a.app.GetFocus()
	for i, t := range targets {
		if t == focused {
			a.app.SetFocus(targets[(i+1)%len(targets)])
			return
		}
	}
	a.app.SetFocus(targets[0])
}

func (a *App) syncMenu() {
	var hints []ui.MenuHint
	switch a.pages.Current() {
	case "thread":
		hints = append(a.panel.Hints(), a.thread.Hints()...)
	case "templates":
		hints = a.templates.Hints()
	case "template-form":
		hints = a.form.Hints()
	case "usage":
		hints = a.usage.Hints()
	case "help":
		hints = a.help.Hints()
	default:
		hints = a.inbox.Hints()
	}
	a.menu.Update(hints)
}

// --- prompt ---

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.promptActive = true
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.promptActive = false
	a.app.SetFocus(a.focusForPage(a.pages.Current()))
}

// applySearch routes the debounced search text to whichever list page
// is active.
func (a *App) applySearch(text string) {
	switch a.pages.Current() {
	case "templates":
		q := a.vm.TemplateQuery()
		q.Search = text
		a.reloadTemplates(q)
	default:
		a.vm.SetSearch(text)
		go func() {
			if err := a.vm.LoadMessages(a.ctx); err != nil {
				a.flashErr(err)
				return
			}
			a.queue(func() {
				a.lastRefresh = time.Now()
				a.refreshInbox()
			})
		}()
	}
}

// --- rendering ---

func (a *App) filterLabel() string {
	f := a.vm.Filter()
	var parts []string
	if f.AccountID != 0 {
		parts = append(parts, a.vm.AccountName(f.AccountID))
	}
	if f.Channel != "" {
		parts = append(parts, triage.Platform(f.Channel).Label())
	}
	if f.Status != "" {
		parts = append(parts, f.Status.Label())
	}
	if f.Search != "" {
		parts = append(parts, "/"+f.Search)
	}
	return strings.Join(parts, " ")
}

func (a *App) refreshInbox() {
	label := a.filterLabel()
	a.inbox.Update(a.vm.Messages(), label)
	a.statusBar.SetFilter(label)
	a.statusBar.SetRefreshed(a.lastRefresh)
	a.serverInfo.Update(&ui.ServerData{
		ServerURL:   a.cfg.ServerURL,
		Accounts:    len(a.vm.Accounts()),
		Summary:     a.vm.Summary(),
		LastRefresh: a.lastRefresh,
		Poll:        time.Duration(a.cfg.PollIntervalSeconds) * time.Second,
	})
	a.flashBar.Update(a.flash.Get())
}

// refreshThread rerenders the thread page from the view model: the
// conversation history and the workflow panel derived from the active
// message.
func (a *App) refreshThread() {
	thread := a.vm.Thread()
	if thread == nil {
		return
	}

	accountName := ""
	entry, ok := a.vm.ActiveEntry()
	if ok {
		accountName = entry.Message.AccountName
		if accountName == "" {
			accountName = a.vm.AccountName(entry.Message.AccountID)
		}
	}
	a.thread.Update(thread, a.vm.ActiveMessageID(), accountName)

	switch a.vm.PanelState() {
	case triage.PanelDraftPending:
		if draft := a.vm.ActiveDraft(); draft != nil {
			a.panel.ShowDraft(draft)
		}
	case triage.PanelHandled:
		a.panel.ShowHandled()
	case triage.PanelSentOnly:
		a.panel.ShowSentOnly(lastSentAt(entry.Responses))
	default:
		if templates, cat, ok := a.vm.PanelTemplates(); ok {
			a.panel.ShowTemplateCards(templates, cat)
		} else {
			a.panel.ShowNoResponse()
		}
	}
	a.syncMenu()
}

func (a *App) refreshTemplates() {
	q := a.vm.TemplateQuery()
	var parts []string
	if q.Platform != "" {
		parts = append(parts, triage.Platform(q.Platform).Label())
	}
	if q.Search != "" {
		parts = append(parts, "/"+q.Search)
	}
	a.templates.Update(a.vm.Templates(), strings.Join(parts, " "))
}

// reloadTemplates refetches the manager list with the given query and
// rerenders on completion.
func (a *App) reloadTemplates(q api.TemplateQuery) {
	go func() {
		if err := a.vm.LoadTemplates(a.ctx, q); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() { a.refreshTemplates() })
	}()
}

// cycleTemplatePlatform steps the manager's platform filter through
// every sales channel and back to unfiltered.
func (a *App) cycleTemplatePlatform() {
	q := a.vm.TemplateQuery()
	q.Platform = string(triage.CyclePlatform(triage.Platform(q.Platform)))
	a.reloadTemplates(q)
}

func lastSentAt(responses []api.Response) string {
	last := ""
	for _, r := range responses {
		if r.IsSent && r.SentAt > last {
			last = r.SentAt
		}
	}
	return last
}

// --- confirm modal ---

func (a *App) confirm(text, okLabel string, onOK func()) {
	modal := ui.Confirm(a.theme, text, okLabel, func(confirmed bool) {
		a.pages.RemovePage("confirm")
		a.app.SetFocus(a.focusForPage(a.pages.Current()))
		if confirmed {
			onOK()
		}
	})
	a.pages.AddPage("confirm", modal, true, true)
	a.app.SetFocus(modal)
}

// --- thread actions ---

func (a *App) openThread(id int) {
	go func() {
		if err := a.vm.LoadThread(a.ctx, id); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.panel.SetEditorText("")
			a.refreshThread()
			a.pushPage("thread")
		})
	}()
}

func (a *App) closeThread() {
	a.vm.CloseThread()
	a.popPage()
}

// generate creates an AI draft. Regeneration on an already-replied
// thread costs another model call, so it sits behind a confirmation.
func (a *App) generate() {
	state := a.vm.PanelState()
	switch {
	case state.Allows(triage.ActionGenerate):
		a.runGenerate()
	case state.Allows(triage.ActionRegenerate):
		a.confirm("下書きを再生成しますか？\nAI利用料が発生します。", "再生成", a.runGenerate)
	}
}

func (a *App) runGenerate() {
	a.flashInfo("AI下書きを生成中...")
	go func() {
		if _, err := a.vm.Generate(a.ctx); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.flashInfo("AI下書きを生成しました")
			a.refreshThread()
			a.focusPanel()
		})
	}()
}

// sendCurrent submits the editor contents: the reviewed draft when one
// is pending, a direct reply otherwise.
func (a *App) sendCurrent() {
	body := strings.TrimSpace(a.panel.EditorText())
	if body == "" {
		a.flash.Warn("本文が空です")
		a.flashBar.Update(a.flash.Get())
		return
	}

	switch a.vm.PanelState() {
	case triage.PanelDraftPending:
		category := a.panel.SelectedCategory()
		a.confirm("この内容で送信しますか？", "送信", func() {
			go func() {
				if err := a.vm.Send(a.ctx, body, category); err != nil {
					a.flashErr(err)
					return
				}
				a.queue(func() {
					a.flashInfo("回答を送信しました")
					a.refreshThread()
					a.refreshInbox()
				})
			}()
		})
	case triage.PanelNoResponse:
		a.confirm("AI下書きなしで直接送信しますか？", "送信", func() {
			go func() {
				if err := a.vm.SendDirect(a.ctx, body); err != nil {
					a.flashErr(err)
					return
				}
				a.queue(func() {
					a.panel.SetEditorText("")
					a.flashInfo("回答を送信しました")
					a.refreshThread()
					a.refreshInbox()
				})
			}()
		})
	}
}

func (a *App) discardDraft() {
	if !a.vm.PanelState().Allows(triage.ActionDiscard) {
		return
	}
	a.confirm("下書きを破棄しますか？", "破棄", func() {
		go func() {
			if err := a.vm.Discard(a.ctx); err != nil {
				a.flashErr(err)
				return
			}
			a.queue(func() {
				a.flashInfo("下書きを破棄しました")
				a.refreshThread()
				a.refreshInbox()
			})
		}()
	})
}

func (a *App) markHandled() {
	if !a.vm.PanelState().Allows(triage.ActionMarkHandled) {
		return
	}
	go func() {
		if err := a.vm.MarkHandled(a.ctx); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.flashInfo("対応済にしました")
			a.refreshThread()
			a.refreshInbox()
		})
	}()
}

func (a *App) reopen() {
	if !a.vm.PanelState().Allows(triage.ActionReopen) {
		return
	}
	go func() {
		if err := a.vm.Reopen(a.ctx); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.flashInfo("再対応に戻しました")
			a.refreshThread()
			a.refreshInbox()
		})
	}()
}

// --- inbox actions ---

func (a *App) fetchNew() {
	a.flashInfo("新着メッセージを取得中...")
	go func() {
		n, err := a.vm.FetchNew(a.ctx)
		if err != nil {
			a.flashErr(err)
			return
		}
		if err := a.vm.LoadMessages(a.ctx); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.lastRefresh = time.Now()
			a.flashInfo(fmt.Sprintf("新着メッセージ%d件を取得しました", n))
			a.refreshInbox()
		})
	}()
}

func (a *App) bulkHandle() {
	ids := a.vm.NewMessageIDs()
	if len(ids) == 0 {
		a.flashInfo("新着メッセージはありません")
		return
	}
	a.confirm(fmt.Sprintf("表示中の新着%d件を対応済にしますか？", len(ids)), "一括対応済", func() {
		go func() {
			n, err := a.vm.BulkHandleNew(a.ctx)
			if err != nil {
				a.flashErr(err)
				return
			}
			a.queue(func() {
				a.flashInfo(fmt.Sprintf("%d件を対応済にしました", n))
				a.refreshInbox()
			})
		}()
	})
}

// --- templates / usage ---

func (a *App) openTemplates() {
	go func() {
		if err := a.vm.LoadTemplates(a.ctx, a.vm.TemplateQuery()); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.refreshTemplates()
			a.pushPage("templates")
		})
	}()
}

func (a *App) newTemplate() {
	a.form.NewTemplate()
	a.pushPage("template-form")
}

func (a *App) deleteTemplate() {
	t, ok := a.templates.Selected()
	if !ok {
		return
	}
	name := triage.Category(t.CategoryKey).Label()
	if t.Subcategory != "" {
		name += " / " + t.Subcategory
	}
	a.confirm(fmt.Sprintf("定型文「%s」を削除しますか？", name), "削除", func() {
		go func() {
			if err := a.vm.DeleteTemplate(a.ctx, t.ID); err != nil {
				a.flashErr(err)
				return
			}
			a.queue(func() {
				a.flashInfo("定型文を削除しました")
				a.refreshTemplates()
			})
		}()
	})
}

func (a *App) openUsage(year, month int) {
	go func() {
		if err := a.vm.LoadUsage(a.ctx, year, month); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.usageYear, a.usageMonth = year, month
			a.usage.Update(a.vm.Usage())
			if a.pages.Current() != "usage" {
				a.pushPage("usage")
			}
		})
	}()
}

func (a *App) shiftUsageMonth(delta int) {
	y, m := a.usageYear, a.usageMonth+delta
	for m < 1 {
		m += 12
		y--
	}
	for m > 12 {
		m -= 12
		y++
	}
	a.openUsage(y, m)
}

// --- commands ---

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "q", "quit":
		a.Stop()
	case "i", "inbox":
		a.pages.Reset("inbox")
		a.app.SetFocus(a.inbox)
		a.refreshInbox()
	case "t", "templates":
		a.openTemplates()
	case "u", "usage":
		y, m := a.usageYear, a.usageMonth
		if cmd.Args != "" {
			fields := strings.Fields(cmd.Args)
			if len(fields) == 2 {
				yy, errY := strconv.Atoi(fields[0])
				mm, errM := strconv.Atoi(fields[1])
				if errY == nil && errM == nil && mm >= 1 && mm <= 12 {
					y, m = yy, mm
				}
			}
		}
		a.openUsage(y, m)
	case "h", "help":
		a.pushPage("help")
	case "fetch":
		a.fetchNew()
	case "handled-all":
		a.bulkHandle()
	case "account":
		a.filterAccount(cmd.Args)
	case "channel":
		a.filterChannel(cmd.Args)
	case "status":
		a.filterStatus(cmd.Args)
	case "clear":
		a.vm.SetFilter(model.Filter{})
		a.reloadInbox()
	default:
		a.flash.Warn("不明なコマンド: " + cmd.Name)
		a.flashBar.Update(a.flash.Get())
	}
}

func (a *App) filterAccount(name string) {
	f := a.vm.Filter()
	if name == "" || name == "all" {
		f.AccountID = 0
	} else {
		acct, ok := a.vm.AccountByName(name)
		if !ok {
			a.flash.Warn("アカウントが見つかりません: " + name)
			a.flashBar.Update(a.flash.Get())
			return
		}
		f.AccountID = acct.ID
	}
	a.vm.SetFilter(f)
	a.reloadInbox()
}

func (a *App) filterChannel(channel string) {
	f := a.vm.Filter()
	if channel == "" || channel == "all" {
		f.Channel = ""
	} else {
		f.Channel = channel
	}
	a.vm.SetFilter(f)
	a.reloadInbox()
}

func (a *App) filterStatus(status string) {
	f := a.vm.Filter()
	if status == "" || status == "all" {
		f.Status = ""
	} else {
		s := triage.Status(status)
		if !triage.ValidStatus(s) {
			a.flash.Warn("不明な状態: " + status)
			a.flashBar.Update(a.flash.Get())
			return
		}
		f.Status = s
	}
	a.vm.SetFilter(f)
	a.reloadInbox()
}

func (a *App) reloadInbox() {
	go func() {
		if err := a.vm.LoadMessages(a.ctx); err != nil {
			a.flashErr(err)
			return
		}
		a.queue(func() {
			a.lastRefresh = time.Now()
			a.refreshInbox()
		})
	}()
}
