// Package picker implements the checklist used by setup to choose which
// configuration entries to install.
package picker

import (
	"errors"

	"github.com/psg2/agent-stuff/internal/keys"
)

// ErrNoItems is returned when a picker is started with nothing to pick.
var ErrNoItems = errors.New("no items to pick from")

// Item is one checklist row.
type Item struct {
	Name        string
	Description string
	Selected    bool
}

// Result is the terminal output of a picker run.
type Result struct {
	// Selected holds item names in item order.
	Selected  []string `json:"selected"`
	Cancelled bool     `json:"cancelled"`
}

// Machine is the checklist state. Not safe for concurrent use.
type Machine struct {
	items  []Item
	cursor int
	dirty  bool
	result *Result
}

// New creates a machine with every item selected.
func New(items []Item) (*Machine, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	own := make([]Item, len(items))
	for i, it := range items {
		it.Selected = true
		own[i] = it
	}

	return &Machine{items: own, dirty: true}, nil
}

// Items returns the current rows.
func (m *Machine) Items() []Item { return m.items }

// Cursor returns the highlighted row.
func (m *Machine) Cursor() int { return m.cursor }

// Done reports whether the picker was submitted or cancelled.
func (m *Machine) Done() bool { return m.result != nil }

// Dirty reports whether state changed since the last ClearDirty.
func (m *Machine) Dirty() bool { return m.dirty }

// ClearDirty marks the current state as drawn.
func (m *Machine) ClearDirty() { m.dirty = false }

// SelectedCount returns how many items are checked.
func (m *Machine) SelectedCount() int {
	n := 0

	for _, it := range m.items {
		if it.Selected {
			n++
		}
	}

	return n
}

// Handle applies one key. Unrecognised keys are ignored.
func (m *Machine) Handle(k keys.Key) {
	if m.Done() {
		return
	}

	switch {
	case k.Type == keys.Up || k.Is('k'):
		m.move(-1)
	case k.Type == keys.Down || k.Is('j'):
		m.move(1)
	case k.Is(' '):
		m.items[m.cursor].Selected = !m.items[m.cursor].Selected
		m.dirty = true
	case k.Is('a'):
		m.setAll(true)
	case k.Is('n'):
		m.setAll(false)
	case k.Type == keys.Enter:
		m.submit()
	case k.Is('q') || k.Type == keys.Escape || k.Type == keys.Interrupt:
		m.Cancel()
	}
}

func (m *Machine) move(delta int) {
	next := min(max(m.cursor+delta, 0), len(m.items)-1)
	if next != m.cursor {
		m.cursor = next
		m.dirty = true
	}
}

func (m *Machine) setAll(selected bool) {
	for i := range m.items {
		m.items[i].Selected = selected
	}

	m.dirty = true
}

func (m *Machine) submit() {
	names := make([]string, 0, len(m.items))
	for _, it := range m.items {
		if it.Selected {
			names = append(names, it.Name)
		}
	}

	m.result = &Result{Selected: names}
	m.dirty = true
}

// Cancel ends the run with nothing selected. No-op once done.
func (m *Machine) Cancel() {
	if m.Done() {
		return
	}

	m.result = &Result{Selected: []string{}, Cancelled: true}
	m.dirty = true
}

// Result returns the outcome; a cancelled result before the run is done.
func (m *Machine) Result() Result {
	if m.result == nil {
		return Result{Selected: []string{}, Cancelled: true}
	}

	return *m.result
}
