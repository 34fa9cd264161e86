package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/cancelreader"

	"github.com/psg2/agent-stuff/internal/keys"
	"github.com/psg2/agent-stuff/internal/terminal"
	"github.com/psg2/agent-stuff/internal/tui/ansi"
)

// fallbackWidth is used when the terminal width is unknown.
const fallbackWidth = 80

// Options configures Run.
type Options struct {
	Title  string
	Width  int
	Styles *Styles
}

// Run shows the checklist on out, reading keys from in, which must be a
// terminal. The terminal is restored on every exit path, and no read on in
// is left pending, so a prompt that follows sees every typed byte.
// Cancelling ctx cancels the run.
func Run(ctx context.Context, in *os.File, out io.Writer, items []Item, opts Options) (Result, error) {
	m, err := New(items)
	if err != nil {
		return Result{}, err
	}

	restore, err := terminal.MakeRaw(in)
	if err != nil {
		return Result{}, err
	}
	defer restore()

	keySource, err := cancelreader.NewReader(in)
	if err != nil {
		return Result{}, fmt.Errorf("open key reader: %w", err)
	}
	defer func() { _ = keySource.Close() }()

	return drive(ctx, m, keySource, out, opts)
}

// drive runs the read-decode-draw loop until m is done. Before returning it
// cancels the pending read on in and waits for the reader to exit.
func drive(ctx context.Context, m *Machine, in cancelreader.CancelReader, out io.Writer, opts Options) (Result, error) {
	st := DefaultStyles()
	if opts.Styles != nil {
		st = *opts.Styles
	}

	title := opts.Title
	if title == "" {
		title = "Select items"
	}

	// Wrapped lines would throw off the in-place repaint.
	width := opts.Width
	if width <= 0 {
		width = fallbackWidth
	}

	d := &drawer{out: out}
	defer d.finish()

	reads := make(chan []byte)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		readChunks(in, reads, readErr, stop)
	}()

	defer func() {
		close(stop)

		// Readers that cannot be interrupted stay blocked until their next
		// byte; only join the ones that can.
		if in.Cancel() {
			<-done
		}
	}()

	var dec keys.Decoder

	for !m.Done() {
		if m.Dirty() {
			d.draw(Render(m, title, width, st))
			m.ClearDirty()
		}

		select {
		case <-ctx.Done():
			m.Cancel()
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				m.Cancel()
				continue
			}

			return Result{}, fmt.Errorf("read keys: %w", err)
		case chunk := <-reads:
			for _, k := range dec.Decode(chunk) {
				m.Handle(k)
			}
		}
	}

	return m.Result(), nil
}

func readChunks(in io.Reader, reads chan<- []byte, errs chan<- error, stop <-chan struct{}) {
	buf := make([]byte, 64)

	for {
		n, err := in.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case reads <- chunk:
			case <-stop:
				return
			}
		}

		if err != nil {
			errs <- err
			return
		}
	}
}

// drawer repaints a block of lines in place.
type drawer struct {
	out   io.Writer
	lines int
}

func (d *drawer) draw(lines []string) {
	var b strings.Builder

	if d.lines == 0 {
		b.WriteString(ansi.HideCursor)
	} else {
		b.WriteString("\r" + ansi.MoveUp(d.lines-1))
	}

	b.WriteString(ansi.ClearToEnd)

	// Raw mode disables output post-processing, so lines end in CRLF.
	b.WriteString(strings.Join(lines, "\r\n"))

	d.lines = len(lines)
	_, _ = io.WriteString(d.out, b.String())
}

func (d *drawer) finish() {
	if d.lines == 0 {
		return
	}

	_, _ = io.WriteString(d.out, "\r"+ansi.MoveUp(d.lines-1)+ansi.ClearToEnd+ansi.ShowCursor)
	d.lines = 0
}
