package wizard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/psg2/agent-stuff/internal/keys"
)

var (
	enter    = keys.Of(keys.Enter)
	escape   = keys.Of(keys.Escape)
	down     = keys.Of(keys.Down)
	up       = keys.Of(keys.Up)
	tabKey   = keys.Of(keys.Tab)
	shiftTab = keys.Of(keys.ShiftTab)
)

func twoOptions(id string) Question {
	return Question{
		ID:     id,
		Prompt: "Pick one for " + id,
		Options: []Option{
			{Value: id + "-a", Label: "Alpha"},
			{Value: id + "-b", Label: "Beta", Description: "second"},
		},
		AllowCustomText: true,
		AllowChat:       true,
	}
}

func newMachine(t *testing.T, qs ...Question) *Machine {
	t.Helper()

	m, err := New(qs, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return m
}

func feed(m *Machine, ks ...keys.Key) {
	for _, k := range ks {
		m.Handle(k)
	}
}

func typeText(m *Machine, s string) {
	for _, r := range s {
		m.Handle(keys.Char(r))
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("New(nil) error = %v, want ErrNoQuestions", err)
	}

	_, err := New([]Question{twoOptions("a"), twoOptions("a")}, nil)
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("New(duplicate ids) error = %v, want ErrInvalidQuestion", err)
	}

	_, err = New([]Question{{ID: "empty"}}, nil)
	if !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("New(no choices) error = %v, want ErrInvalidQuestion", err)
	}
}

func TestNew_DefaultsLabelsAndIDs(t *testing.T) {
	q := twoOptions("")
	q.Label = ""

	m := newMachine(t, q, twoOptions("second"))

	got := m.Questions()
	if got[0].ID != "q1" || got[0].Label != "Q1" {
		t.Fatalf("defaults = (%q, %q), want (q1, Q1)", got[0].ID, got[0].Label)
	}

	if got[1].Label != "Q2" {
		t.Fatalf("second label = %q, want Q2", got[1].Label)
	}
}

func TestSingleQuestion_SelectSecondOption(t *testing.T) {
	q := twoOptions("only")
	q.AllowChat = false

	m := newMachine(t, q)
	feed(m, down, enter)

	res := m.Result()
	if res.Cancelled {
		t.Fatal("result cancelled, want submitted")
	}

	want := []Answer{{
		QuestionID:    "only",
		QuestionLabel: "Q1",
		Value:         "only-b",
		Label:         "Beta",
		SelectedIndex: 2,
	}}
	if !reflect.DeepEqual(res.Answers, want) {
		t.Fatalf("answers = %+v, want %+v", res.Answers, want)
	}

	if m.Mode() != ModeSubmitted {
		t.Fatalf("mode = %v, want ModeSubmitted", m.Mode())
	}
}

func TestMulti_AnswerAllThenSubmit(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"), twoOptions("c"))

	feed(m, enter)       // a: Alpha, advances to b
	feed(m, down, enter) // b: Beta, advances to c
	feed(m, enter)       // c: Alpha, advances to review

	if m.Mode() != ModeReview {
		t.Fatalf("mode = %v, want ModeReview", m.Mode())
	}

	feed(m, enter)

	res := m.Result()
	if res.Cancelled {
		t.Fatal("result cancelled, want submitted")
	}

	if len(res.Answers) != len(res.Questions) {
		t.Fatalf("answers = %d, want %d", len(res.Answers), len(res.Questions))
	}

	gotValues := []string{res.Answers[0].Value, res.Answers[1].Value, res.Answers[2].Value}
	wantValues := []string{"a-a", "b-b", "c-a"}

	if !reflect.DeepEqual(gotValues, wantValues) {
		t.Fatalf("values = %v, want %v", gotValues, wantValues)
	}
}

func TestMulti_CancelDiscardsTentativeAnswers(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, enter, escape)

	res := m.Result()
	if !res.Cancelled {
		t.Fatal("result not cancelled")
	}

	if len(res.Answers) != 0 {
		t.Fatalf("answers = %v, want none", res.Answers)
	}
}

func TestCancel_FromEveryReachableState(t *testing.T) {
	tests := []struct {
		name  string
		setup []keys.Key
		esc   []keys.Key
	}{
		{name: "browsing", esc: []keys.Key{escape}},
		{name: "review", setup: []keys.Key{shiftTab}, esc: []keys.Key{escape}},
		{name: "text entry back then cancel", setup: []keys.Key{down, down, enter}, esc: []keys.Key{escape, escape}},
		{name: "text entry interrupt", setup: []keys.Key{down, down, enter}, esc: []keys.Key{keys.Of(keys.Interrupt)}},
		{name: "review cancel row", setup: []keys.Key{shiftTab, down}, esc: []keys.Key{enter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t, twoOptions("a"), twoOptions("b"))
			feed(m, tt.setup...)
			feed(m, tt.esc...)

			res := m.Result()
			if !res.Cancelled || len(res.Answers) != 0 {
				t.Fatalf("result = %+v, want cancelled with no answers", res)
			}
		})
	}
}

func TestTextEntry_EmptySubmitRecordsPlaceholder(t *testing.T) {
	m := newMachine(t, twoOptions("a"))

	feed(m, down, down, enter) // "Type something."
	if m.Mode() != ModeTextEntry {
		t.Fatalf("mode = %v, want ModeTextEntry", m.Mode())
	}

	typeText(m, "   ")
	feed(m, enter)

	res := m.Result()
	if len(res.Answers) != 1 {
		t.Fatalf("answers = %v, want 1", res.Answers)
	}

	got := res.Answers[0]
	if got.Value != NoResponse || !got.WasCustomText || got.WasChat || got.SelectedIndex != 0 {
		t.Fatalf("answer = %+v, want custom %q", got, NoResponse)
	}
}

func TestTextEntry_ChatTrimsAndAdvances(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, down, down, down, enter) // "Chat about this"
	typeText(m, "  why not both? ")
	feed(m, enter)

	a, ok := m.Answer("a")
	if !ok {
		t.Fatal("no answer recorded for a")
	}

	if a.Value != "why not both?" || !a.WasChat {
		t.Fatalf("answer = %+v", a)
	}

	if m.Step() != 1 || m.Cursor() != 0 || m.Mode() != ModeBrowsing {
		t.Fatalf("after commit step=%d cursor=%d mode=%v, want 1/0/browsing", m.Step(), m.Cursor(), m.Mode())
	}
}

func TestTextEntry_EscapeDiscardsDraft(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, down, down, enter)
	typeText(m, "draft")
	feed(m, escape)

	if m.Mode() != ModeBrowsing || m.Cursor() != 0 {
		t.Fatalf("mode=%v cursor=%d, want browsing/0", m.Mode(), m.Cursor())
	}

	if _, ok := m.Answer("a"); ok {
		t.Fatal("draft was recorded as an answer")
	}
}

func TestTextEntry_KeysGoToEditor(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, down, down, enter)
	typeText(m, "jk")
	feed(m, tabKey, keys.Of(keys.Backspace))
	typeText(m, "x")

	if m.Step() != 0 || m.Mode() != ModeTextEntry {
		t.Fatalf("navigation keys escaped the editor: step=%d mode=%v", m.Step(), m.Mode())
	}

	if got := m.Editor().Value(); got != "jx" {
		t.Fatalf("editor value = %q, want %q", got, "jx")
	}
}

func TestTextEntry_PrefillsPreviousCustomAnswer(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, down, down, enter)
	typeText(m, "first")
	feed(m, enter, shiftTab, down, down, enter)

	if got := m.Editor().Value(); got != "first" {
		t.Fatalf("editor prefill = %q, want %q", got, "first")
	}
}

func TestReanswer_Overwrites(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, enter)                 // a: Alpha
	feed(m, shiftTab, down, enter) // a: Beta

	a, _ := m.Answer("a")
	if a.Value != "a-b" || a.SelectedIndex != 2 {
		t.Fatalf("answer a = %+v, want a-b at index 2", a)
	}

	feed(m, enter, enter) // b: Alpha, then submit on review

	res := m.Result()
	if len(res.Answers) != 2 {
		t.Fatalf("answers = %d, want 2 (no duplicates)", len(res.Answers))
	}
}

func TestReview_SubmitDisabledUntilComplete(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	feed(m, enter)  // a answered, now on b
	feed(m, tabKey) // review with b unanswered
	feed(m, enter)  // submit is disabled

	if m.Done() || m.Mode() != ModeReview {
		t.Fatalf("submit fired while incomplete: mode=%v", m.Mode())
	}

	if m.Complete() {
		t.Fatal("Complete() = true with an unanswered question")
	}
}

func TestNavigation_WrapsAcrossReview(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	steps := []int{}
	for i := 0; i < 4; i++ {
		feed(m, tabKey)
		steps = append(steps, m.Step())
	}

	want := []int{1, 2, 0, 1}
	if !reflect.DeepEqual(steps, want) {
		t.Fatalf("tab steps = %v, want %v", steps, want)
	}

	feed(m, shiftTab, shiftTab, shiftTab)
	if m.Step() != 1 {
		t.Fatalf("shift-tab wrap step = %d, want 1", m.Step())
	}

	if len(m.answers) != 0 {
		t.Fatal("navigation altered answers")
	}
}

func TestNavigation_SingleQuestionHasNoTabs(t *testing.T) {
	m := newMachine(t, twoOptions("a"))
	feed(m, tabKey, keys.Of(keys.Right), shiftTab)

	if m.Step() != 0 || m.Mode() != ModeBrowsing {
		t.Fatalf("step=%d mode=%v, want 0/browsing", m.Step(), m.Mode())
	}
}

func TestCursor_ClampedAndResetOnStepChange(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))

	for i := 0; i < 10; i++ {
		feed(m, down)
	}

	if last := len(m.Choices()) - 1; m.Cursor() != last {
		t.Fatalf("cursor = %d, want clamped to %d", m.Cursor(), last)
	}

	for i := 0; i < 10; i++ {
		feed(m, up)
	}

	if m.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", m.Cursor())
	}

	feed(m, keys.Char('j'), keys.Char('j'), tabKey)
	if m.Cursor() != 0 {
		t.Fatalf("cursor after tab = %d, want 0", m.Cursor())
	}

	feed(m, down, down, down, down, down, down, tabKey)
	if m.Mode() != ModeReview || m.Cursor() != 0 {
		t.Fatalf("review cursor = %d, want 0", m.Cursor())
	}

	feed(m, down, down, down)
	if m.Cursor() != reviewCancel {
		t.Fatalf("review cursor = %d, want clamped to %d", m.Cursor(), reviewCancel)
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	m := newMachine(t, twoOptions("a"), twoOptions("b"))
	m.ClearDirty()

	feed(m, keys.Char('z'), keys.Char('?'), keys.Of(keys.Backspace), keys.Key{})

	if m.Dirty() || m.Step() != 0 || m.Cursor() != 0 || m.Mode() != ModeBrowsing {
		t.Fatal("unknown keys changed state")
	}
}

func TestTerminal_IgnoresFurtherInput(t *testing.T) {
	m := newMachine(t, twoOptions("a"))
	feed(m, enter)

	first := m.Result()
	feed(m, escape, down, enter)

	if !reflect.DeepEqual(first, m.Result()) {
		t.Fatal("result changed after terminal state")
	}
}

func TestResult_BeforeTerminalIsCancelled(t *testing.T) {
	m := newMachine(t, twoOptions("a"))

	res := m.Result()
	if !res.Cancelled || len(res.Answers) != 0 {
		t.Fatalf("pre-terminal result = %+v", res)
	}
}
