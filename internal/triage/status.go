package triage

import (
	"fmt"

	"github.com/ymaeda/kotae/internal/api"
)

// Status is a message lifecycle status. Values are backend-owned strings.
type Status string

const (
	StatusNew       Status = "new"
	StatusAIDrafted Status = "ai_drafted"
	StatusReviewed  Status = "reviewed"
	StatusSent      Status = "sent"
	StatusHandled   Status = "handled"
)

// Statuses lists the filterable statuses in display order.
func Statuses() []Status {
	return []Status{StatusNew, StatusAIDrafted, StatusReviewed, StatusSent, StatusHandled}
}

// ValidStatus reports whether s names a known filterable status.
func ValidStatus(s Status) bool {
	for _, known := range Statuses() {
		if known == s {
			return true
		}
	}
	return false
}

// Label returns the Japanese badge text for a status.
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "新着"
	case StatusAIDrafted:
		return "AI回答済"
	case StatusReviewed:
		return "レビュー済"
	case StatusSent:
		return "送信済"
	case StatusHandled:
		return "対応済"
	default:
		return string(s)
	}
}

// Summary holds the inbox status counts for the currently filtered set.
type Summary struct {
	Total     int
	New       int
	AIDrafted int
	Sent      int
	Handled   int
}

// Summarize recomputes counts from the full filtered result set.
func Summarize(msgs []api.Message) Summary {
	s := Summary{Total: len(msgs)}
	for _, m := range msgs {
		switch Status(m.Status) {
		case StatusNew:
			s.New++
		case StatusAIDrafted:
			s.AIDrafted++
		case StatusSent:
			s.Sent++
		case StatusHandled:
			s.Handled++
		}
	}
	return s
}

// Line renders the summary exactly as shown above the inbox.
func (s Summary) Line() string {
	return fmt.Sprintf("全%d件 | 新着%d | AI回答済%d | 送信済%d | 対応済%d",
		s.Total, s.New, s.AIDrafted, s.Sent, s.Handled)
}
