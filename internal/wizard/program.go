package wizard

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/psg2/agent-stuff/internal/keys"
)

// Options configures Run.
type Options struct {
	// In is the key source; defaults to stdin.
	In io.Reader
	// Out receives the UI; defaults to stderr so stdout stays free for
	// the result.
	Out io.Writer
	// Styles defaults to DefaultStyles().
	Styles *Styles
}

// Run shows the wizard and blocks until it is submitted or cancelled.
// The returned error is only set when the terminal program itself failed.
func Run(ctx context.Context, questions []Question, opts Options) (Result, error) {
	editor := newTextInputEditor()

	machine, err := New(questions, editor)
	if err != nil {
		return Result{}, err
	}

	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	prog := tea.NewProgram(
		&programModel{machine: machine, editor: editor, styles: styles},
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			machine.Cancel()
			return machine.Result(), nil
		}

		return Result{}, fmt.Errorf("run question wizard: %w", err)
	}

	return machine.Result(), nil
}

// programModel adapts Machine to bubbletea. The machine lives behind a
// pointer so every Update mutates the same instance.
type programModel struct {
	machine *Machine
	editor  *textInputEditor
	styles  Styles
	width   int
}

func (p *programModel) Init() tea.Cmd {
	return nil
}

func (p *programModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil
	case tea.KeyMsg:
		// The editor gets the raw message so its own bindings (ctrl+u,
		// home, delete, paste) survive; only the keys the machine owns are
		// translated.
		if p.machine.Mode() == ModeTextEntry && !machineKey(msg) {
			p.editor.update(msg)
			return p, p.editor.takeCmd()
		}

		for _, k := range keys.FromTeaAll(msg) {
			p.machine.Handle(k)

			if p.machine.Done() {
				return p, tea.Quit
			}
		}

		return p, p.editor.takeCmd()
	default:
		// Cursor blink and other widget messages.
		if p.machine.Mode() == ModeTextEntry {
			p.editor.update(msg)
			return p, p.editor.takeCmd()
		}

		return p, nil
	}
}

func (p *programModel) View() string {
	if p.machine.Done() {
		return ""
	}

	p.machine.ClearDirty()

	return strings.Join(Render(p.machine, p.width, p.styles), "\n") + "\n"
}

// machineKey reports whether msg is handled by the machine while the editor
// is open.
func machineKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyCtrlC:
		return true
	default:
		return false
	}
}
