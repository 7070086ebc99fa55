package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ymaeda/kotae/internal/api"
	"github.com/ymaeda/kotae/internal/triage"
)

func testVM(t *testing.T, mux *http.ServeMux) *ViewModel {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(api.New(srv.URL+"/api", 0, zap.NewNop()), 100, zap.NewNop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// threadBackend serves one message with the given status and responses,
// plus accounts and the list endpoint.
func threadBackend(t *testing.T, mux *http.ServeMux, msg api.Message, responses []api.Response) {
	t.Helper()
	mux.HandleFunc("GET /api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Account{{ID: msg.AccountID, Name: "MORABLU", Channel: "amazon", IsActive: true}})
	})
	mux.HandleFunc("GET /api/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Message{msg})
	})
	mux.HandleFunc("GET /api/messages/{id}/thread", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.Thread{
			OrderID: msg.ExternalOrderID,
			Entries: []api.ThreadEntry{{Message: msg, Responses: responses}},
		})
	})
}

func loadAll(t *testing.T, vm *ViewModel, messageID int) {
	t.Helper()
	ctx := context.Background()
	if err := vm.LoadAccounts(ctx); err != nil {
		t.Fatal(err)
	}
	if err := vm.LoadMessages(ctx); err != nil {
		t.Fatal(err)
	}
	if err := vm.LoadThread(ctx, messageID); err != nil {
		t.Fatal(err)
	}
}

func TestSendMarksMessageSentInCache(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Sender: "客", Status: "ai_drafted", Body: "届かない"}
	draft := api.Response{ID: 10, DraftBody: "draft", AISuggestedCategory: "shipping", CreatedAt: "2026-08-01T10:00:00"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, []api.Response{draft})
	var gotReq api.SendRequest
	mux.HandleFunc("PUT /api/ai/10/send", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		writeJSON(t, w, api.Response{ID: 10, DraftBody: "draft", FinalBody: gotReq.FinalBody, IsSent: true, CreatedAt: draft.CreatedAt})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if vm.PanelState() != triage.PanelDraftPending {
		t.Fatalf("PanelState() = %v, want draft_pending", vm.PanelState())
	}

	if err := vm.Send(context.Background(), "最終回答", "shipping"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotReq.CorrectedCategory != "" {
		t.Errorf("corrected_category = %q, want empty when unchanged from AI suggestion", gotReq.CorrectedCategory)
	}
	if got := vm.Messages()[0].Status; got != "sent" {
		t.Errorf("cached status = %q, want sent", got)
	}
	if vm.PanelState() != triage.PanelSentOnly {
		t.Errorf("PanelState() = %v, want sent_only (draft editor gone)", vm.PanelState())
	}
}

func TestSendCorrectedCategoryOnlyWhenChanged(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "ai_drafted"}
	draft := api.Response{ID: 10, DraftBody: "d", AISuggestedCategory: "shipping", CreatedAt: "2026-08-01T10:00:00"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, []api.Response{draft})
	var gotReq api.SendRequest
	mux.HandleFunc("PUT /api/ai/10/send", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		writeJSON(t, w, api.Response{ID: 10, IsSent: true, CreatedAt: draft.CreatedAt})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.Send(context.Background(), "body", "refund"); err != nil {
		t.Fatal(err)
	}
	if gotReq.CorrectedCategory != "refund" {
		t.Errorf("corrected_category = %q, want refund", gotReq.CorrectedCategory)
	}
	if got := vm.Messages()[0].QuestionCategory; got != "refund" {
		t.Errorf("cached category = %q, want refund", got)
	}
}

func TestSendDirectAdoptsRereadMessage(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "new"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	mux.HandleFunc("POST /api/ai/send-direct", func(w http.ResponseWriter, r *http.Request) {
		var req api.SendRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(t, w, api.Response{ID: 20, MessageID: req.MessageID, FinalBody: req.FinalBody, IsSent: true, CreatedAt: "2026-08-26T12:00:00"})
	})
	rereads := 0
	mux.HandleFunc("GET /api/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		rereads++
		writeJSON(t, w, api.Message{ID: 1, AccountID: 2, Status: "sent", QuestionCategory: "shipping"})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.SendDirect(context.Background(), "定型文から送信"); err != nil {
		t.Fatalf("SendDirect() error = %v", err)
	}
	if rereads != 1 {
		t.Errorf("message rereads = %d, want 1", rereads)
	}
	if got := vm.Messages()[0].Status; got != "sent" {
		t.Errorf("cached status = %q, want sent from reread", got)
	}
	if got := vm.Messages()[0].QuestionCategory; got != "shipping" {
		t.Errorf("cached category = %q, want shipping from reread", got)
	}
	if vm.PanelState() != triage.PanelSentOnly {
		t.Errorf("PanelState() = %v, want sent_only", vm.PanelState())
	}
}

func TestTemplateQueryKeepsPlatformFilter(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/qa-templates/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, []api.QATemplate{})
	})

	vm := testVM(t, mux)
	q := api.TemplateQuery{Platform: "rakuten"}
	if err := vm.LoadTemplates(context.Background(), q); err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if gotQuery != "platform=rakuten" {
		t.Errorf("query = %q, want platform=rakuten", gotQuery)
	}
	if vm.TemplateQuery().Platform != "rakuten" {
		t.Errorf("TemplateQuery().Platform = %q, want rakuten (next cycle builds on it)", vm.TemplateQuery().Platform)
	}
}

func TestDiscardAdoptsServerReportedStatus(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "ai_drafted"}
	responses := []api.Response{
		{ID: 5, IsSent: true, CreatedAt: "2026-07-01T10:00:00"},
		{ID: 10, IsSent: false, CreatedAt: "2026-08-01T10:00:00"},
	}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, responses)
	mux.HandleFunc("DELETE /api/ai/10/discard", func(w http.ResponseWriter, r *http.Request) {
		// Backend reverts to sent because a sent reply remains.
		writeJSON(t, w, api.DiscardResult{Detail: "下書きを破棄しました", MessageStatus: "sent"})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.Discard(context.Background()); err != nil {
		t.Fatalf("Discard() error = %v", err)
	}
	if got := vm.Messages()[0].Status; got != "sent" {
		t.Errorf("cached status = %q, want server-reported sent", got)
	}
	if vm.ActiveDraft() != nil {
		t.Error("draft still present after discard")
	}
	if vm.PanelState() != triage.PanelSentOnly {
		t.Errorf("PanelState() = %v, want sent_only", vm.PanelState())
	}
}

func TestGenerateAdoptsSuggestedCategory(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "new"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	mux.HandleFunc("POST /api/ai/generate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.Response{
			ID:                  30,
			MessageID:           1,
			DraftBody:           "お客様各位",
			AISuggestedCategory: "defect",
			CreatedAt:           "2026-08-26T12:00:00",
		})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if vm.PanelState() != triage.PanelNoResponse {
		t.Fatalf("PanelState() = %v, want no_response", vm.PanelState())
	}

	resp, err := vm.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.DraftBody != "お客様各位" {
		t.Errorf("DraftBody = %q", resp.DraftBody)
	}
	if got := vm.Messages()[0].Status; got != "ai_drafted" {
		t.Errorf("cached status = %q, want ai_drafted", got)
	}
	if got := vm.Messages()[0].QuestionCategory; got != "defect" {
		t.Errorf("cached category = %q, want defect", got)
	}
	if vm.PanelState() != triage.PanelDraftPending {
		t.Errorf("PanelState() = %v, want draft_pending", vm.PanelState())
	}
}

func TestGenerateFailureLeavesStateUnchanged(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "new"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	mux.HandleFunc("POST /api/ai/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		writeJSON(t, w, map[string]string{"detail": "AI生成エラー: TimeoutError"})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	_, err := vm.Generate(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "AI生成エラー: TimeoutError" {
		t.Errorf("error = %q, want backend detail verbatim", err.Error())
	}
	if got := vm.Messages()[0].Status; got != "new" {
		t.Errorf("cached status = %q, want new (unchanged)", got)
	}
	if vm.PanelState() != triage.PanelNoResponse {
		t.Errorf("PanelState() = %v, want no_response (retry offered)", vm.PanelState())
	}
}

func TestPanelTemplatesQueryUsesAccountChannel(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "new"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	var gotQuery string
	mux.HandleFunc("GET /api/qa-templates/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(t, w, []api.QATemplate{{ID: 1, CategoryKey: "shipping", Category: "発送はいつ？", Platform: "amazon", AnswerTemplate: "..."}})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.LoadPanelTemplates(context.Background(), triage.CategoryShipping); err != nil {
		t.Fatalf("LoadPanelTemplates() error = %v", err)
	}
	if gotQuery != "category_key=shipping&platform=amazon" {
		t.Errorf("query = %q, want category_key=shipping&platform=amazon", gotQuery)
	}

	templates, category, ok := vm.PanelTemplates()
	if !ok {
		t.Fatal("PanelTemplates() ok = false")
	}
	if category != triage.CategoryShipping {
		t.Errorf("category = %v, want shipping", category)
	}
	if len(templates) != 1 {
		t.Errorf("len(templates) = %d, want 1 (backend results only)", len(templates))
	}
}

func TestPanelTemplatesEmptyResultStillOk(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "new"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	mux.HandleFunc("GET /api/qa-templates/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.QATemplate{})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.LoadPanelTemplates(context.Background(), triage.CategoryDefect); err != nil {
		t.Fatal(err)
	}
	templates, _, ok := vm.PanelTemplates()
	if !ok {
		t.Fatal("PanelTemplates() ok = false, want true with zero templates")
	}
	if len(templates) != 0 {
		t.Errorf("len(templates) = %d, want 0", len(templates))
	}
	// The generate and mark-handled actions stay available.
	if !vm.PanelState().Allows(triage.ActionGenerate) {
		t.Error("generate must remain offered with no templates")
	}
	if !vm.PanelState().Allows(triage.ActionMarkHandled) {
		t.Error("mark-handled must remain offered with no templates")
	}
}

func TestPanelTemplatesClearedOnNewThread(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "new"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	mux.HandleFunc("GET /api/qa-templates/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.QATemplate{{ID: 1}})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.LoadPanelTemplates(context.Background(), triage.CategoryShipping); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := vm.PanelTemplates(); !ok {
		t.Fatal("expected templates loaded")
	}

	// Re-selecting a message resets the workflow-scoped pick.
	if err := vm.LoadThread(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := vm.PanelTemplates(); ok {
		t.Error("pick state leaked across thread selections")
	}
}

func TestMarkHandledUpdatesThreadSiblings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Account{{ID: 2, Name: "MORABLU", Channel: "amazon"}})
	})
	mux.HandleFunc("GET /api/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Message{
			{ID: 1, AccountID: 2, Sender: "客A", Status: "new"},
			{ID: 3, AccountID: 2, Sender: "客A", Status: "new"},
			{ID: 4, AccountID: 2, Sender: "客B", Status: "new"},
		})
	})
	mux.HandleFunc("GET /api/messages/{id}/thread", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.Thread{Entries: []api.ThreadEntry{
			{Message: api.Message{ID: 1, AccountID: 2, Sender: "客A", Status: "new"}},
		}})
	})
	mux.HandleFunc("PUT /api/messages/1/handled", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.StatusResult{Detail: "対応済みにしました（2件）", ID: 1, Status: "handled"})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if err := vm.MarkHandled(context.Background()); err != nil {
		t.Fatalf("MarkHandled() error = %v", err)
	}

	msgs := vm.Messages()
	if msgs[0].Status != "handled" || msgs[1].Status != "handled" {
		t.Errorf("thread siblings = %q/%q, want handled/handled", msgs[0].Status, msgs[1].Status)
	}
	if msgs[2].Status != "new" {
		t.Errorf("other sender = %q, want new (untouched)", msgs[2].Status)
	}
	if vm.PanelState() != triage.PanelHandled {
		t.Errorf("PanelState() = %v, want handled", vm.PanelState())
	}
}

func TestReopenAdoptsReportedStatus(t *testing.T) {
	msg := api.Message{ID: 1, AccountID: 2, Status: "handled"}

	mux := http.NewServeMux()
	threadBackend(t, mux, msg, nil)
	mux.HandleFunc("PUT /api/messages/1/reopen", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, api.StatusResult{Detail: "新着に戻しました", ID: 1, Status: "new"})
	})

	vm := testVM(t, mux)
	loadAll(t, vm, 1)

	if vm.PanelState() != triage.PanelHandled {
		t.Fatalf("PanelState() = %v, want handled", vm.PanelState())
	}
	if err := vm.Reopen(context.Background()); err != nil {
		t.Fatal(err)
	}
	if vm.PanelState() != triage.PanelNoResponse {
		t.Errorf("PanelState() = %v, want no_response", vm.PanelState())
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	store := map[int]api.QATemplate{}
	nextID := 1

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/qa-templates/", func(w http.ResponseWriter, r *http.Request) {
		var out []api.QATemplate
		for _, tpl := range store {
			out = append(out, tpl)
		}
		writeJSON(t, w, out)
	})
	mux.HandleFunc("POST /api/qa-templates/", func(w http.ResponseWriter, r *http.Request) {
		var in api.TemplateInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		tpl := api.QATemplate{
			ID:             nextID,
			CategoryKey:    in.CategoryKey,
			Category:       in.Category,
			Subcategory:    in.Subcategory,
			Platform:       in.Platform,
			AnswerTemplate: in.AnswerTemplate,
			StaffNotes:     in.StaffNotes,
		}
		store[nextID] = tpl
		nextID++
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, tpl)
	})
	mux.HandleFunc("PUT /api/qa-templates/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in api.TemplateInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		tpl := store[1]
		tpl.Category = in.Category
		tpl.AnswerTemplate = in.AnswerTemplate
		tpl.CategoryKey = in.CategoryKey
		tpl.Platform = in.Platform
		tpl.Subcategory = in.Subcategory
		tpl.StaffNotes = in.StaffNotes
		store[1] = tpl
		writeJSON(t, w, tpl)
	})

	vm := testVM(t, mux)

	in := api.TemplateInput{
		CategoryKey:    "shipping",
		Category:       "発送はいつですか",
		Subcategory:    "繁忙期",
		Platform:       "amazon",
		AnswerTemplate: "ご注文ありがとうございます。",
		StaffNotes:     "追跡番号を確認",
	}
	created, err := vm.SaveTemplate(context.Background(), 0, in)
	if err != nil {
		t.Fatalf("SaveTemplate(create) error = %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created template has no id")
	}

	// Immediately editing with the returned id must round-trip every field.
	updated, err := vm.SaveTemplate(context.Background(), created.ID, in)
	if err != nil {
		t.Fatalf("SaveTemplate(update) error = %v", err)
	}
	if *updated != (api.QATemplate{
		ID:             created.ID,
		CategoryKey:    in.CategoryKey,
		Category:       in.Category,
		Subcategory:    in.Subcategory,
		Platform:       in.Platform,
		AnswerTemplate: in.AnswerTemplate,
		StaffNotes:     in.StaffNotes,
	}) {
		t.Errorf("round-trip mismatch: %+v", updated)
	}
}

func TestBulkHandleNewNoNetworkWhenEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Account{})
	})
	mux.HandleFunc("GET /api/messages/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, []api.Message{{ID: 1, Status: "sent"}})
	})
	mux.HandleFunc("PUT /api/messages/bulk-handled", func(w http.ResponseWriter, r *http.Request) {
		t.Error("bulk-handled must not be called when nothing is new")
	})

	vm := testVM(t, mux)
	if err := vm.LoadMessages(context.Background()); err != nil {
		t.Fatal(err)
	}

	n, err := vm.BulkHandleNew(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("updated = %d, want 0", n)
	}
}
