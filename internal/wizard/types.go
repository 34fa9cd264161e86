package wizard

import "fmt"

// NoResponse is recorded when a free-text answer is submitted empty.
const NoResponse = "(no response)"

// Option is one selectable answer to a question.
type Option struct {
	Value       string `json:"value" yaml:"value" toml:"value"`
	Label       string `json:"label" yaml:"label" toml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Question is one step of the wizard.
type Question struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Prompt  string   `json:"prompt"`
	Options []Option `json:"options"`
	// AllowCustomText adds the "Type something." row. The zero value hides
	// it; LoadQuestions and the ask command default it to true.
	AllowCustomText bool `json:"allowCustomText"`
	// AllowChat adds the "Chat about this" row, with the same defaulting as
	// AllowCustomText.
	AllowChat bool `json:"allowChat"`
}

// Answer is the recorded response to a question.
type Answer struct {
	QuestionID    string `json:"questionId"`
	QuestionLabel string `json:"questionLabel"`
	Value         string `json:"value"`
	Label         string `json:"label"`
	WasCustomText bool   `json:"wasCustomText"`
	WasChat       bool   `json:"wasChat"`
	// SelectedIndex is the 1-based position among the question's real
	// options, or 0 for free-text answers.
	SelectedIndex int `json:"selectedIndex,omitempty"`
}

// Result is the terminal output of a wizard run.
type Result struct {
	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`
	Cancelled bool       `json:"cancelled"`
}

// ChoiceKind tags the variants of Choice.
type ChoiceKind int

const (
	// ChoiceOption is one of the question's real options.
	ChoiceOption ChoiceKind = iota
	// ChoiceCustomText opens the editor for a typed answer.
	ChoiceCustomText
	// ChoiceChat opens the editor for a free-form chat reply.
	ChoiceChat
)

// Choice is one row in a question's list: a real option or one of the two
// free-text escapes.
type Choice struct {
	Kind   ChoiceKind
	Option Option
	// Index is the 1-based option position; zero for escapes.
	Index int
}

// Label returns the display text for the choice.
func (c Choice) Label() string {
	switch c.Kind {
	case ChoiceCustomText:
		return "Type something."
	case ChoiceChat:
		return "Chat about this"
	default:
		if c.Option.Label != "" {
			return c.Option.Label
		}

		return c.Option.Value
	}
}

// Description returns the secondary text for the choice.
func (c Choice) Description() string {
	switch c.Kind {
	case ChoiceCustomText:
		return "Enter a custom answer"
	case ChoiceChat:
		return "Discuss instead of picking an option"
	default:
		return c.Option.Description
	}
}

// choices returns the rows shown for q, escapes last.
func choices(q Question) []Choice {
	out := make([]Choice, 0, len(q.Options)+2)
	for i, opt := range q.Options {
		out = append(out, Choice{Kind: ChoiceOption, Option: opt, Index: i + 1})
	}

	if q.AllowCustomText {
		out = append(out, Choice{Kind: ChoiceCustomText})
	}

	if q.AllowChat {
		out = append(out, Choice{Kind: ChoiceChat})
	}

	return out
}

// Normalize fills default ids and labels and validates the question set.
func Normalize(questions []Question) ([]Question, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	out := make([]Question, len(questions))
	seen := make(map[string]bool, len(questions))

	for i, q := range questions {
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}

		if q.Label == "" {
			q.Label = fmt.Sprintf("Q%d", i+1)
		}

		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrInvalidQuestion, q.ID)
		}

		seen[q.ID] = true

		if len(choices(q)) == 0 {
			return nil, fmt.Errorf("%w: question %q has no options", ErrInvalidQuestion, q.ID)
		}

		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}

	return out, nil
}
