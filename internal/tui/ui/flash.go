package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// FlashMessage is a transient notification with a level and expiry.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// FlashModel holds the current transient notification. Every failed
// action surfaces here; it never escalates beyond the message.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{}
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(msg string) {
	f.set(msg, FlashInfo, 5*time.Second)
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(msg string) {
	f.set(msg, FlashWarn, 8*time.Second)
}

// Err sets an error-level flash message. The error text is shown
// verbatim, which for backend failures is the {detail} body.
func (f *FlashModel) Err(err error) {
	f.set(err.Error(), FlashErr, 10*time.Second)
}

func (f *FlashModel) set(msg string, level FlashLevel, d time.Duration) {
	f.mu.Lock()
	f.current = FlashMessage{Text: msg, Level: level, Expires: time.Now().Add(d)}
	f.mu.Unlock()
}

// Get returns the current flash message, or nil if expired.
func (f *FlashModel) Get() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if time.Now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{TextView: tv, theme: theme}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	var color string
	switch msg.Level {
	case FlashInfo:
		color = ColorName(fb.theme.FlashInfoColor)
	case FlashWarn:
		color = ColorName(fb.theme.FlashWarnColor)
	case FlashErr:
		color = ColorName(fb.theme.FlashErrColor)
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s[-]", color, tview.Escape(msg.Text))
}
