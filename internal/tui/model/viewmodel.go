// Package model owns the client-side state: read-through caches of
// backend entities plus the mutation entry points the views call. All
// state is transient; the backend stays the source of truth and every
// successful mutation updates the cache synchronously so views re-render
// without a round-trip refetch.
package model

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/triage"
)

// Filter holds the inbox filters, combined as AND by the backend.
type Filter struct {
	AccountID int
	Channel   string
	Status    triage.Status
	Search    string
}

// pick is the reply-workflow scoped template selection, keyed by the
// active message id so a stale load never leaks into another message.
type pick struct {
	messageID int
	category  triage.Category
	templates []api.QATemplate
	loaded    bool
}

// ViewModel caches backend state and performs all mutations. A single
// mutex guards the caches; the TUI goroutines snapshot through getters.
type ViewModel struct {
	mu        sync.RWMutex
	client    *api.Client
	log       *zap.Logger
	pageLimit int

	accounts  []api.Account
	messages  []api.Message
	templates []api.QATemplate
	usage     *api.Usage

	filter        Filter
	templateQuery api.TemplateQuery

	thread   *api.Thread
	activeID int
	picked   pick
}

// New creates a view model backed by the given API client.
func New(client *api.Client, pageLimit int, log *zap.Logger) *ViewModel {
	if pageLimit <= 0 {
		pageLimit = 100
	}
	return &ViewModel{
		client:    client,
		log:       log,
		pageLimit: pageLimit,
	}
}

// LoadAccounts refreshes the account cache.
func (vm *ViewModel) LoadAccounts(ctx context.Context) error {
	accounts, err := vm.client.ListAccounts(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.accounts = accounts
	vm.mu.Unlock()
	return nil
}

// LoadMessages replaces the message cache with the filtered backend list.
func (vm *ViewModel) LoadMessages(ctx context.Context) error {
	vm.mu.RLock()
	f := vm.filter
	vm.mu.RUnlock()

	messages, err := vm.client.ListMessages(ctx, api.ListMessagesParams{
		AccountID: f.AccountID,
		Channel:   f.Channel,
		Status:    string(f.Status),
		Search:    f.Search,
		Limit:     vm.pageLimit,
	})
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.messages = messages
	vm.mu.Unlock()
	return nil
}

// LoadThread fetches the conversation for the selected message. Threads
// are never cached across messages: every selection refetches.
func (vm *ViewModel) LoadThread(ctx context.Context, messageID int) error {
	thread, err := vm.client.GetThread(ctx, messageID)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.thread = thread
	vm.activeID = messageID
	vm.picked = pick{}
	vm.mu.Unlock()
	return nil
}

// CloseThread drops the active thread and its workflow state.
func (vm *ViewModel) CloseThread() {
	vm.mu.Lock()
	vm.thread = nil
	vm.activeID = 0
	vm.picked = pick{}
	vm.mu.Unlock()
}

// Messages returns the cached message list.
func (vm *ViewModel) Messages() []api.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.messages
}

// Accounts returns the cached account list.
func (vm *ViewModel) Accounts() []api.Account {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.accounts
}

// AccountName resolves an account id to its display name.
func (vm *ViewModel) AccountName(id int) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, a := range vm.accounts {
		if a.ID == id {
			return a.Name
		}
	}
	return ""
}

// AccountByName resolves a display name (exact match) to an account.
func (vm *ViewModel) AccountByName(name string) (api.Account, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, a := range vm.accounts {
		if a.Name == name {
			return a, true
		}
	}
	return api.Account{}, false
}

// Summary recomputes status counts from the full filtered message cache.
func (vm *ViewModel) Summary() triage.Summary {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return triage.Summarize(vm.messages)
}

// Filter returns the current inbox filter.
func (vm *ViewModel) Filter() Filter {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.filter
}

// SetFilter replaces the inbox filter. The caller reloads afterwards.
func (vm *ViewModel) SetFilter(f Filter) {
	vm.mu.Lock()
	vm.filter = f
	vm.mu.Unlock()
}

// SetSearch updates only the free-text search term.
func (vm *ViewModel) SetSearch(search string) {
	vm.mu.Lock()
	vm.filter.Search = search
	vm.mu.Unlock()
}

// Thread returns the active conversation, or nil.
func (vm *ViewModel) Thread() *api.Thread {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.thread
}

// ActiveMessageID returns the id of the selected message.
func (vm *ViewModel) ActiveMessageID() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.activeID
}

// ActiveEntry returns the thread entry for the selected message. Only
// this entry exposes the action panel; earlier entries render read-only.
func (vm *ViewModel) ActiveEntry() (api.ThreadEntry, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.activeEntryLocked()
}

func (vm *ViewModel) activeEntryLocked() (api.ThreadEntry, bool) {
	if vm.thread == nil {
		return api.ThreadEntry{}, false
	}
	for _, e := range vm.thread.Entries {
		if e.Message.ID == vm.activeID {
			return e, true
		}
	}
	return api.ThreadEntry{}, false
}

// PanelState derives the reply-workflow state for the selected message.
func (vm *ViewModel) PanelState() triage.PanelState {
	entry, ok := vm.ActiveEntry()
	if !ok {
		return triage.PanelNoResponse
	}
	return triage.Derive(triage.Status(entry.Message.Status), entry.Responses)
}

// ActiveDraft returns the actionable unsent draft for the selected
// message, or nil.
func (vm *ViewModel) ActiveDraft() *api.Response {
	entry, ok := vm.ActiveEntry()
	if !ok {
		return nil
	}
	return triage.ActiveDraft(entry.Responses)
}

// LoadPanelTemplates fetches templates for the picked category, matched
// exactly on category key plus the account's platform. Results are owned
// here, keyed by the active message, never stashed on rendering nodes.
func (vm *ViewModel) LoadPanelTemplates(ctx context.Context, category triage.Category) error {
	vm.mu.RLock()
	messageID := vm.activeID
	entry, ok := vm.activeEntryLocked()
	vm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no active message")
	}

	platform := vm.channelForAccount(entry.Message.AccountID)
	templates, err := vm.client.ListTemplates(ctx, api.TemplateQuery{
		CategoryKey: string(category),
		Platform:    platform,
	})
	if err != nil {
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	// A slow response for a message the user already left must not leak
	// into the newly selected one.
	if vm.activeID != messageID {
		return nil
	}
	vm.picked = pick{
		messageID: messageID,
		category:  category,
		templates: templates,
		loaded:    true,
	}
	return nil
}

func (vm *ViewModel) channelForAccount(accountID int) string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, a := range vm.accounts {
		if a.ID == accountID {
			return a.Channel
		}
	}
	return ""
}

// PanelTemplates returns the fetched template cards for the selected
// message, with the picked category. ok is false until a category was
// picked for this message.
func (vm *ViewModel) PanelTemplates() (templates []api.QATemplate, category triage.Category, ok bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if !vm.picked.loaded || vm.picked.messageID != vm.activeID {
		return nil, "", false
	}
	return vm.picked.templates, vm.picked.category, true
}

// ClearPanelTemplates resets the category pick for the active message.
func (vm *ViewModel) ClearPanelTemplates() {
	vm.mu.Lock()
	vm.picked = pick{}
	vm.mu.Unlock()
}

// Generate asks the AI to draft a reply for the selected message. On
// success the message becomes ai_drafted with the AI-suggested category
// and the draft is appended to the thread. Failure changes nothing.
func (vm *ViewModel) Generate(ctx context.Context) (*api.Response, error) {
	messageID := vm.ActiveMessageID()
	if messageID == 0 {
		return nil, fmt.Errorf("no active message")
	}

	resp, err := vm.client.GenerateDraft(ctx, messageID)
	if err != nil {
		return nil, err
	}

	vm.mu.Lock()
	vm.setMessageStatusLocked(messageID, string(triage.StatusAIDrafted))
	if resp.AISuggestedCategory != "" {
		vm.setMessageCategoryLocked(messageID, resp.AISuggestedCategory)
	}
	vm.appendResponseLocked(messageID, *resp)
	vm.mu.Unlock()

	vm.log.Info("draft generated",
		zap.Int("message_id", messageID),
		zap.Int("response_id", resp.ID))
	return resp, nil
}

// Send finalizes the active draft. correctedCategory is sent only when
// the staff changed the category away from the AI suggestion; the
// template-pick category is deliberately not compared (observed backend
// behavior).
func (vm *ViewModel) Send(ctx context.Context, finalBody, selectedCategory string) error {
	messageID := vm.ActiveMessageID()
	draft := vm.ActiveDraft()
	if draft == nil {
		return fmt.Errorf("no draft to send")
	}

	req := api.SendRequest{FinalBody: finalBody}
	if selectedCategory != "" && selectedCategory != draft.AISuggestedCategory {
		req.CorrectedCategory = selectedCategory
	}

	resp, err := vm.client.SendResponse(ctx, draft.ID, req)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.setMessageStatusLocked(messageID, string(triage.StatusSent))
	if req.CorrectedCategory != "" {
		vm.setMessageCategoryLocked(messageID, req.CorrectedCategory)
	}
	vm.markResponseSentLocked(messageID, draft.ID, resp)
	vm.mu.Unlock()

	vm.log.Info("response sent",
		zap.Int("message_id", messageID),
		zap.Int("response_id", draft.ID),
		zap.Bool("category_corrected", req.CorrectedCategory != ""))
	return nil
}

// SendDirect creates and sends a reply from a template in one step,
// without AI generation and without a category correction.
func (vm *ViewModel) SendDirect(ctx context.Context, finalBody string) error {
	messageID := vm.ActiveMessageID()
	if messageID == 0 {
		return fmt.Errorf("no active message")
	}

	resp, err := vm.client.SendDirect(ctx, api.SendRequest{
		MessageID: messageID,
		FinalBody: finalBody,
	})
	if err != nil {
		return err
	}

	// The acknowledgment carries only the response record, so re-read
	// the message itself instead of assuming its new state.
	status := string(triage.StatusSent)
	category := ""
	if msg, err := vm.client.GetMessage(ctx, messageID); err == nil {
		status = msg.Status
		category = msg.QuestionCategory
	}

	vm.mu.Lock()
	vm.setMessageStatusLocked(messageID, status)
	if category != "" {
		vm.setMessageCategoryLocked(messageID, category)
	}
	vm.appendResponseLocked(messageID, *resp)
	vm.mu.Unlock()

	vm.log.Info("direct reply sent", zap.Int("message_id", messageID))
	return nil
}

// Discard deletes the active draft. The backend reports which status the
// message reverted to; that status is adopted verbatim, never assumed.
func (vm *ViewModel) Discard(ctx context.Context) error {
	messageID := vm.ActiveMessageID()
	draft := vm.ActiveDraft()
	if draft == nil {
		return fmt.Errorf("no draft to discard")
	}

	res, err := vm.client.DiscardDraft(ctx, draft.ID)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.removeResponseLocked(messageID, draft.ID)
	if res.MessageStatus != "" {
		vm.setMessageStatusLocked(messageID, res.MessageStatus)
	}
	vm.mu.Unlock()

	vm.log.Info("draft discarded",
		zap.Int("message_id", messageID),
		zap.String("reverted_status", res.MessageStatus))
	return nil
}

// MarkHandled resolves the selected message out of band. The backend
// also marks the rest of the thread's new messages, so the cache mirrors
// that for list rows of the same sender and account.
func (vm *ViewModel) MarkHandled(ctx context.Context) error {
	messageID := vm.ActiveMessageID()
	if messageID == 0 {
		return fmt.Errorf("no active message")
	}

	res, err := vm.client.MarkHandled(ctx, messageID)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	var sender string
	var accountID int
	for _, m := range vm.messages {
		if m.ID == messageID {
			sender, accountID = m.Sender, m.AccountID
		}
	}
	for i := range vm.messages {
		m := &vm.messages[i]
		if m.ID == messageID ||
			(sender != "" && m.Sender == sender && m.AccountID == accountID && m.Status == string(triage.StatusNew)) {
			m.Status = res.Status
		}
	}
	vm.setThreadStatusLocked(messageID, res.Status)
	vm.mu.Unlock()
	return nil
}

// Reopen puts a handled message back into the queue, adopting the status
// the backend reports (new).
func (vm *ViewModel) Reopen(ctx context.Context) error {
	messageID := vm.ActiveMessageID()
	if messageID == 0 {
		return fmt.Errorf("no active message")
	}

	res, err := vm.client.Reopen(ctx, messageID)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.setMessageStatusLocked(messageID, res.Status)
	vm.mu.Unlock()
	return nil
}

// FetchNew triggers backend ingestion and reports how many messages
// arrived. The caller reloads the list afterwards.
func (vm *ViewModel) FetchNew(ctx context.Context) (int, error) {
	res, err := vm.client.FetchMessages(ctx)
	if err != nil {
		return 0, err
	}
	return res.TotalNew, nil
}

// NewMessageIDs returns the ids of cached messages still in new status.
func (vm *ViewModel) NewMessageIDs() []int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	var ids []int
	for _, m := range vm.messages {
		if m.Status == string(triage.StatusNew) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// BulkHandleNew marks every currently cached new message handled.
func (vm *ViewModel) BulkHandleNew(ctx context.Context) (int, error) {
	ids := vm.NewMessageIDs()
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := vm.client.BulkMarkHandled(ctx, ids)
	if err != nil {
		return 0, err
	}

	vm.mu.Lock()
	for i := range vm.messages {
		if vm.messages[i].Status == string(triage.StatusNew) {
			vm.messages[i].Status = string(triage.StatusHandled)
		}
	}
	vm.mu.Unlock()
	return res.Updated, nil
}

// LoadTemplates refreshes the template-manager cache for the query.
func (vm *ViewModel) LoadTemplates(ctx context.Context, q api.TemplateQuery) error {
	templates, err := vm.client.ListTemplates(ctx, q)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.templates = templates
	vm.templateQuery = q
	vm.mu.Unlock()
	return nil
}

// Templates returns the cached template list.
func (vm *ViewModel) Templates() []api.QATemplate {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.templates
}

// TemplateQuery returns the template-manager filter last applied.
func (vm *ViewModel) TemplateQuery() api.TemplateQuery {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.templateQuery
}

// SaveTemplate creates (id == 0) or updates a template, then reloads the
// list with the current query. Last write wins; there is no conflict
// detection.
func (vm *ViewModel) SaveTemplate(ctx context.Context, id int, in api.TemplateInput) (*api.QATemplate, error) {
	var saved *api.QATemplate
	var err error
	if id == 0 {
		saved, err = vm.client.CreateTemplate(ctx, in)
	} else {
		saved, err = vm.client.UpdateTemplate(ctx, id, in)
	}
	if err != nil {
		return nil, err
	}
	if err := vm.LoadTemplates(ctx, vm.TemplateQuery()); err != nil {
		return saved, err
	}
	return saved, nil
}

// DeleteTemplate removes a template and reloads the list.
func (vm *ViewModel) DeleteTemplate(ctx context.Context, id int) error {
	if err := vm.client.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	return vm.LoadTemplates(ctx, vm.TemplateQuery())
}

// LoadUsage fetches the monthly AI usage aggregation.
func (vm *ViewModel) LoadUsage(ctx context.Context, year, month int) error {
	usage, err := vm.client.Usage(ctx, year, month)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.usage = usage
	vm.mu.Unlock()
	return nil
}

// Usage returns the cached usage report, or nil.
func (vm *ViewModel) Usage() *api.Usage {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.usage
}

func (vm *ViewModel) setMessageStatusLocked(id int, status string) {
	for i := range vm.messages {
		if vm.messages[i].ID == id {
			vm.messages[i].Status = status
		}
	}
	vm.setThreadStatusLocked(id, status)
}

func (vm *ViewModel) setThreadStatusLocked(id int, status string) {
	if vm.thread == nil {
		return
	}
	for i := range vm.thread.Entries {
		if vm.thread.Entries[i].Message.ID == id {
			vm.thread.Entries[i].Message.Status = status
		}
	}
}

func (vm *ViewModel) setMessageCategoryLocked(id int, category string) {
	for i := range vm.messages {
		if vm.messages[i].ID == id {
			vm.messages[i].QuestionCategory = category
		}
	}
	if vm.thread == nil {
		return
	}
	for i := range vm.thread.Entries {
		if vm.thread.Entries[i].Message.ID == id {
			vm.thread.Entries[i].Message.QuestionCategory = category
		}
	}
}

func (vm *ViewModel) appendResponseLocked(messageID int, resp api.Response) {
	if vm.thread == nil || vm.activeID != messageID {
		return
	}
	for i := range vm.thread.Entries {
		if vm.thread.Entries[i].Message.ID == messageID {
			vm.thread.Entries[i].Responses = append(vm.thread.Entries[i].Responses, resp)
		}
	}
}

func (vm *ViewModel) markResponseSentLocked(messageID, responseID int, sent *api.Response) {
	if vm.thread == nil {
		return
	}
	for i := range vm.thread.Entries {
		if vm.thread.Entries[i].Message.ID != messageID {
			continue
		}
		for j := range vm.thread.Entries[i].Responses {
			if vm.thread.Entries[i].Responses[j].ID == responseID {
				if sent != nil {
					vm.thread.Entries[i].Responses[j] = *sent
				} else {
					vm.thread.Entries[i].Responses[j].IsSent = true
				}
			}
		}
	}
}

func (vm *ViewModel) removeResponseLocked(messageID, responseID int) {
	if vm.thread == nil {
		return
	}
	for i := range vm.thread.Entries {
		if vm.thread.Entries[i].Message.ID != messageID {
			continue
		}
		kept := vm.thread.Entries[i].Responses[:0]
		for _, r := range vm.thread.Entries[i].Responses {
			if r.ID != responseID {
				kept = append(kept, r)
			}
		}
		vm.thread.Entries[i].Responses = kept
	}
}
