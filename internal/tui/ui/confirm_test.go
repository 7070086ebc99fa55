package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ymaeda/kotae/internal/api"
)

// Declining the discard dialog must leave the backend untouched: no
// DELETE goes out for the cancel button or for Escape.
func TestConfirmDeclineIssuesNoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			t.Errorf("unexpected %s %s after declined confirmation", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	client := api.New(srv.URL+"/api", 0, zap.NewNop())

	discarded := false
	done := confirmDone(func(confirmed bool) {
		if !confirmed {
			return
		}
		discarded = true
		_, _ = client.DiscardDraft(context.Background(), 10)
	})

	done(1, "キャンセル")
	done(-1, "")

	if discarded {
		t.Error("declined confirmation ran the discard action")
	}
}

func TestConfirmAcceptRunsAction(t *testing.T) {
	deletes := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deletes++
		}
		_, _ = w.Write([]byte(`{"detail":"下書きを破棄しました","message_status":"new"}`))
	}))
	t.Cleanup(srv.Close)
	client := api.New(srv.URL+"/api", 0, zap.NewNop())

	done := confirmDone(func(confirmed bool) {
		if !confirmed {
			t.Error("affirmative button reported declined")
			return
		}
		if _, err := client.DiscardDraft(context.Background(), 10); err != nil {
			t.Errorf("DiscardDraft() error = %v", err)
		}
	})

	done(0, "破棄")

	if deletes != 1 {
		t.Errorf("DELETE count = %d, want 1", deletes)
	}
}
