// Package linking installs bundle files into their standard locations by
// symlinking (or copying) them, backing up whatever was there before.
package linking

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/psg2/agent-stuff/internal/paths"
)

// DefaultBackupSuffix is appended to files moved out of the way.
const DefaultBackupSuffix = ".bak"

// Mode selects how a source is installed.
type Mode string

const (
	// ModeLink creates a symlink to the bundle file.
	ModeLink Mode = "link"
	// ModeCopy copies the bundle file or directory.
	ModeCopy Mode = "copy"
)

// ParseMode accepts "link" or "copy"; empty means link.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeLink:
		return ModeLink, nil
	case ModeCopy:
		return ModeCopy, nil
	default:
		return "", fmt.Errorf("unknown install mode %q (want link or copy)", s)
	}
}

// Action is what Apply will do for one entry.
type Action int

const (
	// ActionCreate installs into a free target.
	ActionCreate Action = iota
	// ActionReplace swaps a stale symlink.
	ActionReplace
	// ActionBackup moves an existing file aside before installing.
	ActionBackup
	// ActionSkipLinked leaves a target that already points at the source.
	ActionSkipLinked
	// ActionSkipMissing skips an entry whose source is absent.
	ActionSkipMissing
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionReplace:
		return "replace"
	case ActionBackup:
		return "backup+replace"
	case ActionSkipLinked:
		return "already linked"
	case ActionSkipMissing:
		return "source missing"
	default:
		return "action(" + strconv.Itoa(int(a)) + ")"
	}
}

// Skip reports whether the action leaves the filesystem untouched.
func (a Action) Skip() bool {
	return a == ActionSkipLinked || a == ActionSkipMissing
}

// Op is one planned installation.
type Op struct {
	Entry      Entry
	SourcePath string
	TargetPath string
	Action     Action
}

// Plan inspects the filesystem and decides an Op per entry. Targets are
// expanded against home.
func Plan(root, home string, entries []Entry, mode Mode) ([]Op, error) {
	ops := make([]Op, 0, len(entries))

	for _, e := range entries {
		op := Op{
			Entry:      e,
			SourcePath: filepath.Join(root, e.Source),
			TargetPath: paths.ExpandHome(e.Target, home),
		}

		action, err := decide(op.SourcePath, op.TargetPath, mode)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", e.Name, err)
		}

		op.Action = action
		ops = append(ops, op)
	}

	return ops, nil
}

func decide(source, target string, mode Mode) (Action, error) {
	if _, err := os.Stat(source); err != nil {
		if os.IsNotExist(err) {
			return ActionSkipMissing, nil
		}

		return 0, fmt.Errorf("stat source: %w", err)
	}

	info, err := os.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return ActionCreate, nil
		}

		return 0, fmt.Errorf("stat target: %w", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return ActionBackup, nil
	}

	dest, err := os.Readlink(target)
	if err != nil {
		return 0, fmt.Errorf("read link: %w", err)
	}

	if mode == ModeLink && samePath(dest, source) {
		return ActionSkipLinked, nil
	}

	return ActionReplace, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)

	return errA == nil && errB == nil && absA == absB
}

// Options controls Apply.
type Options struct {
	Mode         Mode
	DryRun       bool
	BackupSuffix string
}

// Result reports what happened to one Op.
type Result struct {
	Op         Op
	Changed    bool
	BackupPath string
	Err        error
}

// Apply performs ops in order. A failing op does not stop later ones; its
// error is reported in its Result.
func Apply(ops []Op, opts Options) []Result {
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = DefaultBackupSuffix
	}

	if opts.Mode == "" {
		opts.Mode = ModeLink
	}

	results := make([]Result, 0, len(ops))

	for _, op := range ops {
		results = append(results, apply(op, opts))
	}

	return results
}

func apply(op Op, opts Options) Result {
	res := Result{Op: op}

	if op.Action.Skip() {
		return res
	}

	if op.Action == ActionBackup {
		backup, err := freeBackupPath(op.TargetPath, opts.BackupSuffix)
		if err != nil {
			res.Err = err
			return res
		}

		res.BackupPath = backup
	}

	if opts.DryRun {
		res.Changed = true
		return res
	}

	if err := os.MkdirAll(filepath.Dir(op.TargetPath), 0o755); err != nil { //nolint:gosec // G301: user config dir
		res.Err = fmt.Errorf("create parent directory: %w", err)
		return res
	}

	var staleDest string

	switch op.Action {
	case ActionBackup:
		if err := os.Rename(op.TargetPath, res.BackupPath); err != nil {
			res.Err = fmt.Errorf("back up %s: %w", op.TargetPath, err)
			return res
		}
	case ActionReplace:
		staleDest, _ = os.Readlink(op.TargetPath)

		if err := os.Remove(op.TargetPath); err != nil {
			res.Err = fmt.Errorf("remove stale link: %w", err)
			return res
		}
	}

	var err error
	if opts.Mode == ModeCopy {
		err = copyPath(op.SourcePath, op.TargetPath)
	} else {
		err = os.Symlink(op.SourcePath, op.TargetPath)
	}

	if err != nil {
		res.Err = fmt.Errorf("install %s: %w", op.Entry.Name, err)

		if rerr := restore(op, opts.Mode, res.BackupPath, staleDest); rerr != nil {
			res.Err = errors.Join(res.Err, rerr)
		} else {
			res.BackupPath = ""
		}

		return res
	}

	res.Changed = true

	return res
}

// restore puts back whatever a failed install displaced: the backed-up
// file, or the stale link. A partial copy is removed first.
func restore(op Op, mode Mode, backup, staleDest string) error {
	if mode == ModeCopy {
		if err := os.RemoveAll(op.TargetPath); err != nil {
			return fmt.Errorf("remove partial copy: %w", err)
		}
	}

	switch {
	case backup != "":
		if err := os.Rename(backup, op.TargetPath); err != nil {
			return fmt.Errorf("restore %s from %s: %w", op.TargetPath, backup, err)
		}
	case staleDest != "":
		if err := os.Symlink(staleDest, op.TargetPath); err != nil {
			return fmt.Errorf("restore link %s: %w", op.TargetPath, err)
		}
	}

	return nil
}

// freeBackupPath returns target+suffix, or target+suffix+".N" for the
// first N not already taken.
func freeBackupPath(target, suffix string) (string, error) {
	candidate := target + suffix

	for n := 1; ; n++ {
		_, err := os.Lstat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		}

		if err != nil {
			return "", fmt.Errorf("check backup path: %w", err)
		}

		candidate = target + suffix + "." + strconv.Itoa(n)
	}
}

func copyPath(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return copyFile(src, dst, info.Mode().Perm())
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := copyPath(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src) //nolint:gosec // G304: bundle file
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // G304: install target
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// State is the install state of one entry, used by diagnostics.
type State int

const (
	// StateLinked: the target is installed from the bundle.
	StateLinked State = iota
	// StateMissing: nothing exists at the target.
	StateMissing
	// StateDiffers: something else occupies the target.
	StateDiffers
	// StateSourceMissing: the bundle lacks the source.
	StateSourceMissing
)

func (s State) String() string {
	switch s {
	case StateLinked:
		return "linked"
	case StateMissing:
		return "missing"
	case StateDiffers:
		return "differs"
	case StateSourceMissing:
		return "source missing"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Inspect reports the link state of an op produced by Plan in link mode.
func Inspect(op Op) State {
	switch op.Action {
	case ActionSkipLinked:
		return StateLinked
	case ActionSkipMissing:
		return StateSourceMissing
	case ActionCreate:
		return StateMissing
	default:
		return StateDiffers
	}
}
