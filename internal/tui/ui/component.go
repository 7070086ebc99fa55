package ui

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
}

// Component is the lifecycle interface for all TUI views.
type Component interface {
	Name() string
	Init()
	Start()
	Stop()
	Hints() []MenuHint
}
