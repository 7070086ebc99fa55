package triage

import (
	"slices"

	"github.com/ymaeda/kotae/internal/api"
)

// PanelState is the reply-workflow state for a selected message. It is
// derived from the message status and its response history on every
// render, never stored.
type PanelState int

const (
	// PanelNoResponse: no draft, nothing sent, not handled. Category
	// picker, AI generation and mark-handled are offered.
	PanelNoResponse PanelState = iota
	// PanelDraftPending: an unsent draft exists. Editor pre-filled with
	// the active draft.
	PanelDraftPending
	// PanelHandled: resolved out of band. Reopen is the only action.
	PanelHandled
	// PanelSentOnly: replies were sent and no draft remains. Regenerate
	// (behind a cost warning) is the only action.
	PanelSentOnly
)

func (s PanelState) String() string {
	switch s {
	case PanelNoResponse:
		return "no_response"
	case PanelDraftPending:
		return "draft_pending"
	case PanelHandled:
		return "handled"
	case PanelSentOnly:
		return "sent_only"
	default:
		return "unknown"
	}
}

// Action is a user-triggered workflow transition.
type Action int

const (
	ActionGenerate Action = iota
	ActionRegenerate
	ActionSend
	ActionSendDirect
	ActionDiscard
	ActionMarkHandled
	ActionReopen
)

// panelActions maps each panel state to the transitions it offers.
// handled is terminal except for reopen; sent threads only regenerate.
var panelActions = map[PanelState][]Action{
	PanelNoResponse:   {ActionGenerate, ActionSendDirect, ActionMarkHandled},
	PanelDraftPending: {ActionSend, ActionDiscard},
	PanelHandled:      {ActionReopen},
	PanelSentOnly:     {ActionRegenerate},
}

// Allows reports whether the action is valid in this state.
func (s PanelState) Allows(a Action) bool {
	return slices.Contains(panelActions[s], a)
}

// ActiveDraft returns the actionable unsent response: the most recently
// created one. Older unsent drafts are shown nowhere and never actioned.
// Returns nil when no unsent response exists.
func ActiveDraft(responses []api.Response) *api.Response {
	var active *api.Response
	for i := range responses {
		r := &responses[i]
		if r.IsSent {
			continue
		}
		if active == nil || newerDraft(r, active) {
			active = r
		}
	}
	return active
}

// newerDraft orders drafts by creation time, falling back to id. The
// backend emits ISO-8601 timestamps, so the string compare is ordered.
func newerDraft(a, b *api.Response) bool {
	if a.CreatedAt != b.CreatedAt {
		return a.CreatedAt > b.CreatedAt
	}
	return a.ID > b.ID
}

// Derive computes the panel state for a message and its responses.
// Handled wins over everything: it is a terminal state whose only exit
// is reopen.
func Derive(status Status, responses []api.Response) PanelState {
	if status == StatusHandled {
		return PanelHandled
	}
	if ActiveDraft(responses) != nil {
		return PanelDraftPending
	}
	for _, r := range responses {
		if r.IsSent {
			return PanelSentOnly
		}
	}
	return PanelNoResponse
}
