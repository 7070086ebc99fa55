package triage

import (
	"testing"

	"github.com/ymaeda/kotae/internal/api"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name      string
		status    Status
		responses []api.Response
		want      PanelState
	}{
		{
			name:   "no responses and not handled shows category picker",
			status: StatusNew,
			want:   PanelNoResponse,
		},
		{
			name:   "single unsent draft shows editor",
			status: StatusAIDrafted,
			responses: []api.Response{
				{ID: 1, IsSent: false, CreatedAt: "2026-08-01T10:00:00"},
			},
			want: PanelDraftPending,
		},
		{
			name:   "handled is terminal even with sent history",
			status: StatusHandled,
			responses: []api.Response{
				{ID: 1, IsSent: true, CreatedAt: "2026-08-01T10:00:00"},
			},
			want: PanelHandled,
		},
		{
			name:   "sent response and no draft offers regenerate only",
			status: StatusSent,
			responses: []api.Response{
				{ID: 1, IsSent: true, CreatedAt: "2026-08-01T10:00:00"},
			},
			want: PanelSentOnly,
		},
		{
			name:   "unsent draft after a sent reply still edits the draft",
			status: StatusAIDrafted,
			responses: []api.Response{
				{ID: 1, IsSent: true, CreatedAt: "2026-08-01T10:00:00"},
				{ID: 2, IsSent: false, CreatedAt: "2026-08-02T09:00:00"},
			},
			want: PanelDraftPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.status, tt.responses); got != tt.want {
				t.Errorf("Derive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActiveDraftPicksMostRecent(t *testing.T) {
	responses := []api.Response{
		{ID: 1, IsSent: false, CreatedAt: "2026-08-01T10:00:00"},
		{ID: 3, IsSent: true, CreatedAt: "2026-08-03T10:00:00"},
		{ID: 2, IsSent: false, CreatedAt: "2026-08-02T10:00:00"},
	}

	draft := ActiveDraft(responses)
	if draft == nil {
		t.Fatal("ActiveDraft() = nil, want draft")
	}
	if draft.ID != 2 {
		t.Errorf("ActiveDraft().ID = %d, want 2 (most recently created unsent)", draft.ID)
	}
}

func TestActiveDraftTieBreaksOnID(t *testing.T) {
	responses := []api.Response{
		{ID: 5, IsSent: false, CreatedAt: "2026-08-01T10:00:00"},
		{ID: 6, IsSent: false, CreatedAt: "2026-08-01T10:00:00"},
	}

	if draft := ActiveDraft(responses); draft.ID != 6 {
		t.Errorf("ActiveDraft().ID = %d, want 6", draft.ID)
	}
}

func TestActiveDraftNoneWhenAllSent(t *testing.T) {
	responses := []api.Response{
		{ID: 1, IsSent: true, CreatedAt: "2026-08-01T10:00:00"},
	}
	if draft := ActiveDraft(responses); draft != nil {
		t.Errorf("ActiveDraft() = %+v, want nil", draft)
	}
}

func TestPanelActions(t *testing.T) {
	tests := []struct {
		state  PanelState
		action Action
		want   bool
	}{
		{PanelNoResponse, ActionGenerate, true},
		{PanelNoResponse, ActionMarkHandled, true},
		{PanelNoResponse, ActionSendDirect, true},
		{PanelNoResponse, ActionSend, false},
		{PanelDraftPending, ActionSend, true},
		{PanelDraftPending, ActionDiscard, true},
		{PanelDraftPending, ActionGenerate, false},
		{PanelHandled, ActionReopen, true},
		{PanelHandled, ActionGenerate, false},
		{PanelSentOnly, ActionRegenerate, true},
		{PanelSentOnly, ActionDiscard, false},
	}

	for _, tt := range tests {
		if got := tt.state.Allows(tt.action); got != tt.want {
			t.Errorf("%v.Allows(%v) = %v, want %v", tt.state, tt.action, got, tt.want)
		}
	}
}

func TestSummaryLine(t *testing.T) {
	msgs := []api.Message{
		{ID: 1, Status: "new"},
		{ID: 2, Status: "ai_drafted"},
		{ID: 3, Status: "sent"},
	}

	got := Summarize(msgs).Line()
	want := "全3件 | 新着1 | AI回答済1 | 送信済1 | 対応済0"
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestSummarizeIgnoresReviewedInCounts(t *testing.T) {
	msgs := []api.Message{
		{ID: 1, Status: "reviewed"},
		{ID: 2, Status: "new"},
	}
	s := Summarize(msgs)
	if s.Total != 2 {
		t.Errorf("Total = %d, want 2", s.Total)
	}
	if s.New != 1 {
		t.Errorf("New = %d, want 1", s.New)
	}
}
