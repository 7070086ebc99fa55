// Package keys holds the explicit keybinding registry. Handlers are
// registered after views are built, keeping markup generation decoupled
// from behavior.
package keys

import "github.com/gdamore/tcell/v2"

// Action represents a keybinding action.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Registry holds keybindings organized by scope. Registration order is
// preserved so hint bars render deterministically.
type Registry struct {
	global []*Action
	views  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string][]*Action)}
}

// AddGlobal registers a keybinding active on every page.
func (r *Registry) AddGlobal(action *Action) {
	r.global = append(r.global, action)
}

// AddView registers a keybinding scoped to one page.
func (r *Registry) AddView(view string, action *Action) {
	r.views[view] = append(r.views[view], action)
}

// Hints returns visible keybinding descriptions for a view, view-scoped
// bindings first.
func (r *Registry) Hints(view string) []string {
	var hints []string
	for _, a := range r.views[view] {
		if a.Visible {
			hints = append(hints, a.Description)
		}
	}
	for _, a := range r.global {
		if a.Visible {
			hints = append(hints, a.Description)
		}
	}
	return hints
}

// HandleEvent dispatches a key event to the first matching action for
// the view. View-specific bindings shadow global ones.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, a := range r.views[view] {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	for _, a := range r.global {
		if a.Matches(ev) {
			a.Handler()
			return true
		}
	}
	return false
}
