// Package wizard implements the clarifying-question dialog: a multi-step
// choice wizard with breadcrumb tabs, an inline free-text editor and a
// review step.
//
// Machine is the pure state machine. It consumes keys.Key values and never
// touches the terminal; Run drives it with a bubbletea program.
package wizard

import (
	"errors"
	"strings"

	"github.com/psg2/agent-stuff/internal/keys"
)

var (
	// ErrNoQuestions is returned when a wizard is started without questions.
	ErrNoQuestions = errors.New("no questions provided")
	// ErrInvalidQuestion wraps question validation failures.
	ErrInvalidQuestion = errors.New("invalid question")
)

// Mode is the machine's current state.
type Mode int

const (
	// ModeBrowsing: the cursor rests on a choice of the active question.
	ModeBrowsing Mode = iota
	// ModeTextEntry: keystrokes go to the line editor.
	ModeTextEntry
	// ModeReview: the summary step of a multi-question run.
	ModeReview
	// ModeSubmitted is terminal.
	ModeSubmitted
	// ModeCancelled is terminal.
	ModeCancelled
)

// Review rows.
const (
	reviewSubmit = iota
	reviewCancel
	reviewRows
)

// Editor is the line editor used in text-entry mode.
type Editor interface {
	Reset(initial string)
	HandleKey(k keys.Key)
	Value() string
	View() string
}

// Machine is the wizard state. It is owned by a single driver and is not
// safe for concurrent use.
type Machine struct {
	questions []Question
	answers   map[string]Answer
	editor    Editor

	step      int
	cursor    int
	mode      Mode
	entryKind ChoiceKind
	dirty     bool

	result *Result
}

// New creates a machine for questions. A nil editor selects a bubbles
// textinput editor.
func New(questions []Question, editor Editor) (*Machine, error) {
	qs, err := Normalize(questions)
	if err != nil {
		return nil, err
	}

	if editor == nil {
		editor = newTextInputEditor()
	}

	return &Machine{
		questions: qs,
		answers:   make(map[string]Answer, len(qs)),
		editor:    editor,
		dirty:     true,
	}, nil
}

// Questions returns the normalized questions.
func (m *Machine) Questions() []Question { return m.questions }

// Multi reports whether the run has tabs and a review step.
func (m *Machine) Multi() bool { return len(m.questions) > 1 }

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Step returns the active step index; len(Questions()) is the review step.
func (m *Machine) Step() int { return m.step }

// Cursor returns the highlighted row within the active step.
func (m *Machine) Cursor() int { return m.cursor }

// EntryKind returns which escape opened the editor.
func (m *Machine) EntryKind() ChoiceKind { return m.entryKind }

// Editor returns the line editor.
func (m *Machine) Editor() Editor { return m.editor }

// Done reports whether the machine reached a terminal state.
func (m *Machine) Done() bool {
	return m.mode == ModeSubmitted || m.mode == ModeCancelled
}

// Dirty reports whether state changed since the last ClearDirty.
func (m *Machine) Dirty() bool { return m.dirty }

// ClearDirty marks the current state as drawn.
func (m *Machine) ClearDirty() { m.dirty = false }

// Answer returns the recorded answer for a question id.
func (m *Machine) Answer(id string) (Answer, bool) {
	a, ok := m.answers[id]
	return a, ok
}

// Complete reports whether every question has an answer.
func (m *Machine) Complete() bool {
	for _, q := range m.questions {
		if _, ok := m.answers[q.ID]; !ok {
			return false
		}
	}

	return true
}

// Choices returns the rows of the active step: the question's choices, or
// nil on the review step.
func (m *Machine) Choices() []Choice {
	if m.step >= len(m.questions) {
		return nil
	}

	return choices(m.questions[m.step])
}

// rowCount is the number of cursor positions in the active step.
func (m *Machine) rowCount() int {
	if m.mode == ModeReview {
		return reviewRows
	}

	return len(m.Choices())
}

// Handle applies one key. Unrecognised keys leave the state unchanged.
func (m *Machine) Handle(k keys.Key) {
	switch m.mode {
	case ModeBrowsing:
		m.handleBrowsing(k)
	case ModeTextEntry:
		m.handleTextEntry(k)
	case ModeReview:
		m.handleReview(k)
	case ModeSubmitted, ModeCancelled:
	}
}

func (m *Machine) handleBrowsing(k keys.Key) {
	switch {
	case k.Type == keys.Escape || k.Type == keys.Interrupt:
		m.Cancel()
	case k.Type == keys.Up || k.Is('k'):
		m.moveCursor(-1)
	case k.Type == keys.Down || k.Is('j'):
		m.moveCursor(1)
	case k.Type == keys.Tab || k.Type == keys.Right || k.Is('l'):
		m.cycleStep(1)
	case k.Type == keys.ShiftTab || k.Type == keys.Left || k.Is('h'):
		m.cycleStep(-1)
	case k.Type == keys.Enter:
		rows := m.Choices()
		if m.cursor < len(rows) {
			m.confirm(rows[m.cursor])
		}
	}
}

func (m *Machine) handleTextEntry(k keys.Key) {
	switch k.Type {
	case keys.Escape:
		m.mode = ModeBrowsing
		m.cursor = 0
		m.dirty = true
	case keys.Interrupt:
		m.Cancel()
	case keys.Enter:
		text := strings.TrimSpace(m.editor.Value())
		if text == "" {
			text = NoResponse
		}

		q := m.questions[m.step]
		m.answers[q.ID] = Answer{
			QuestionID:    q.ID,
			QuestionLabel: q.Label,
			Value:         text,
			Label:         text,
			WasCustomText: m.entryKind == ChoiceCustomText,
			WasChat:       m.entryKind == ChoiceChat,
		}
		m.mode = ModeBrowsing
		m.advance()
	default:
		m.editor.HandleKey(k)
		m.dirty = true
	}
}

func (m *Machine) handleReview(k keys.Key) {
	switch {
	case k.Type == keys.Escape || k.Type == keys.Interrupt:
		m.Cancel()
	case k.Type == keys.Up || k.Is('k'):
		m.moveCursor(-1)
	case k.Type == keys.Down || k.Is('j'):
		m.moveCursor(1)
	case k.Type == keys.Tab || k.Type == keys.Right || k.Is('l'):
		m.cycleStep(1)
	case k.Type == keys.ShiftTab || k.Type == keys.Left || k.Is('h'):
		m.cycleStep(-1)
	case k.Type == keys.Enter:
		switch m.cursor {
		case reviewSubmit:
			// Submit is disabled until every question is answered.
			if m.Complete() {
				m.submit()
			}
		case reviewCancel:
			m.Cancel()
		}
	}
}

func (m *Machine) moveCursor(delta int) {
	next := m.cursor + delta

	last := m.rowCount() - 1
	if next > last {
		next = last
	}

	if next < 0 {
		next = 0
	}

	if next != m.cursor {
		m.cursor = next
		m.dirty = true
	}
}

// cycleStep moves between tabs with wrap-around. Single-question runs have
// no tabs.
func (m *Machine) cycleStep(delta int) {
	if !m.Multi() {
		return
	}

	steps := len(m.questions) + 1
	m.gotoStep(((m.step+delta)%steps + steps) % steps)
}

func (m *Machine) gotoStep(step int) {
	m.step = step
	m.cursor = 0
	m.dirty = true

	if step >= len(m.questions) {
		m.mode = ModeReview
		return
	}

	m.mode = ModeBrowsing
}

func (m *Machine) confirm(c Choice) {
	q := m.questions[m.step]

	switch c.Kind {
	case ChoiceCustomText, ChoiceChat:
		initial := ""
		if prev, ok := m.answers[q.ID]; ok {
			if (c.Kind == ChoiceCustomText && prev.WasCustomText) || (c.Kind == ChoiceChat && prev.WasChat) {
				initial = prev.Value
			}
		}

		m.entryKind = c.Kind
		m.editor.Reset(initial)
		m.mode = ModeTextEntry
		m.dirty = true
	default:
		m.answers[q.ID] = Answer{
			QuestionID:    q.ID,
			QuestionLabel: q.Label,
			Value:         c.Option.Value,
			Label:         c.Label(),
			SelectedIndex: c.Index,
		}
		m.advance()
	}
}

// advance moves past the active step after it was answered.
func (m *Machine) advance() {
	if !m.Multi() {
		m.submit()
		return
	}

	m.gotoStep(m.step + 1)
}

func (m *Machine) submit() {
	answers := make([]Answer, 0, len(m.questions))
	for _, q := range m.questions {
		if a, ok := m.answers[q.ID]; ok {
			answers = append(answers, a)
		}
	}

	m.finish(ModeSubmitted, answers)
}

// Cancel ends the run without answers. It is a no-op once terminal.
func (m *Machine) Cancel() {
	m.finish(ModeCancelled, []Answer{})
}

func (m *Machine) finish(mode Mode, answers []Answer) {
	if m.result != nil {
		return
	}

	m.mode = mode
	m.dirty = true
	m.result = &Result{
		Questions: m.questions,
		Answers:   answers,
		Cancelled: mode == ModeCancelled,
	}
}

// Result returns the terminal result. Before the machine is done it reports
// a cancelled, empty result.
func (m *Machine) Result() Result {
	if m.result == nil {
		return Result{Questions: m.questions, Answers: []Answer{}, Cancelled: true}
	}

	return *m.result
}
