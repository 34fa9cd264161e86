package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	clierrors "github.com/psg2/agent-stuff/internal/errors"
	"github.com/psg2/agent-stuff/internal/observability"
	"github.com/psg2/agent-stuff/internal/output"
	"github.com/psg2/agent-stuff/internal/prompt"
	"github.com/psg2/agent-stuff/internal/wizard"
)

// inlineQuestions collects --question and --option flags in command-line
// order, so each option attaches to the question before it.
type inlineQuestions struct {
	questions []wizard.Question
}

type questionFlag struct{ into *inlineQuestions }

func (f questionFlag) String() string { return "" }
func (f questionFlag) Type() string   { return "prompt" }

func (f questionFlag) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New("question prompt must not be empty")
	}

	f.into.questions = append(f.into.questions, wizard.Question{Prompt: v})

	return nil
}

type optionFlag struct{ into *inlineQuestions }

func (f optionFlag) String() string { return "" }
func (f optionFlag) Type() string   { return "value[:label]" }

func (f optionFlag) Set(v string) error {
	n := len(f.into.questions)
	if n == 0 {
		return errors.New("--option must follow a --question")
	}

	opt, err := parseOption(v)
	if err != nil {
		return err
	}

	q := &f.into.questions[n-1]
	q.Options = append(q.Options, opt)

	return nil
}

// parseOption splits "VALUE[:LABEL]". The label defaults to the value.
func parseOption(v string) (wizard.Option, error) {
	value, label, _ := strings.Cut(v, ":")
	value = strings.TrimSpace(value)
	label = strings.TrimSpace(label)

	if value == "" {
		return wizard.Option{}, fmt.Errorf("option %q has no value", v)
	}

	if label == "" {
		label = value
	}

	return wizard.Option{Value: value, Label: label}, nil
}

func newAskCmd() *cobra.Command {
	var (
		file         string
		noCustom     bool
		noChat       bool
		failOnCancel bool
		inline       inlineQuestions
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask multiple-choice questions in the terminal",
		Long: `Show a keyboard-driven dialog with one or more questions and print the
answers. Each question offers its options plus, unless disabled, a free-text
answer and a "chat about this" escape. With several questions a tab bar and a
review step let you revisit answers before submitting.

The dialog draws on stderr; answers go to stdout (as JSON with --json).`,
		Example: `  agent-stuff ask -q "Which database?" -o pg:PostgreSQL -o sqlite:SQLite
  agent-stuff ask --file questions.yaml --json
  agent-stuff ask -q "Deploy now?" -o yes -o no --no-chat --fail-on-cancel`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			logger := observability.FromContext(cmd.Context())

			questions, err := collectQuestions(file, inline.questions, noCustom, noChat)
			if err != nil {
				return err
			}

			if !prompt.New(out).CanPrompt() {
				return clierrors.CannotPrompt("let the agent ask in plain text")
			}

			opts := wizard.Options{Out: out.Err}
			if !out.Terminal().ColorEnabled() {
				plain := wizard.PlainStyles()
				opts.Styles = &plain
			}

			logger.Info("ask started", slog.Int("ask.questions", len(questions)))

			result, err := wizard.Run(cmd.Context(), questions, opts)
			if err != nil {
				return clierrors.Wrap(clierrors.ExitGeneral, "Question dialog failed", err)
			}

			logger.Info("ask finished",
				slog.Bool("ask.cancelled", result.Cancelled),
				slog.Int("ask.answers", len(result.Answers)),
			)

			if out.JSON {
				if err := out.PrintJSON(result); err != nil {
					return err
				}
			} else {
				printAnswers(out, result)
			}

			if result.Cancelled && failOnCancel {
				return clierrors.Cancelled("Question dialog")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Questions file (.yaml, .yml, .json, .toml)")
	cmd.Flags().VarP(questionFlag{into: &inline}, "question", "q", "Add a question (repeatable)")
	cmd.Flags().VarP(optionFlag{into: &inline}, "option", "o", "Add an option to the preceding question as VALUE[:LABEL]")
	cmd.Flags().BoolVar(&noCustom, "no-custom", false, `Hide the "Type something." row`)
	cmd.Flags().BoolVar(&noChat, "no-chat", false, `Hide the "Chat about this" row`)
	cmd.Flags().BoolVar(&failOnCancel, "fail-on-cancel", false, "Exit with code 130 when the dialog is cancelled")

	return cmd
}

// collectQuestions merges the file and inline questions and validates them.
func collectQuestions(file string, inline []wizard.Question, noCustom, noChat bool) ([]wizard.Question, error) {
	var questions []wizard.Question

	if file != "" {
		loaded, err := wizard.LoadQuestions(file)
		if err != nil && !errors.Is(err, wizard.ErrNoQuestions) {
			if errors.Is(err, wizard.ErrInvalidQuestion) {
				return nil, clierrors.InvalidQuestions(err)
			}

			return nil, clierrors.Wrap(clierrors.ExitUsage, fmt.Sprintf("Cannot read questions file %s", file), err).
				WithHint("Use a .yaml, .yml, .json or .toml file")
		}

		questions = append(questions, loaded...)
	}

	for _, q := range inline {
		q.AllowCustomText = true
		q.AllowChat = true
		questions = append(questions, q)
	}

	for i := range questions {
		if noCustom {
			questions[i].AllowCustomText = false
		}

		if noChat {
			questions[i].AllowChat = false
		}
	}

	normalized, err := wizard.Normalize(questions)
	if err != nil {
		if errors.Is(err, wizard.ErrNoQuestions) {
			return nil, clierrors.NoQuestions()
		}

		return nil, clierrors.InvalidQuestions(err)
	}

	return normalized, nil
}

// printAnswers writes one line per answer, or "Cancelled".
func printAnswers(out *output.Writer, result wizard.Result) {
	if result.Cancelled {
		out.Println("Cancelled")
		return
	}

	for _, a := range result.Answers {
		out.Print("%s: %s\n", a.QuestionLabel, answerText(a))
	}
}

func answerText(a wizard.Answer) string {
	switch {
	case a.WasChat:
		return "wants to discuss: " + a.Label
	case a.WasCustomText:
		return "user wrote: " + a.Label
	default:
		return a.Label
	}
}
