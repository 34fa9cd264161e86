// Package errors provides structured CLI error types for agent-stuff.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for CLI errors.
const (
	ExitSuccess   = 0   // Successful execution
	ExitGeneral   = 1   // General error
	ExitConfig    = 4   // Configuration error
	ExitExecution = 6   // Execution failure
	ExitUsage     = 64  // Command line usage error (BSD convention)
	ExitCancelled = 130 // Cancelled by the user (128 + SIGINT)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// CannotPrompt returns an error when an interactive UI is unavailable.
func CannotPrompt(alternative string) *CLIError {
	return &CLIError{
		Message: "Cannot prompt in non-interactive mode",
		Hint:    fmt.Sprintf("Run from an interactive terminal, or %s", alternative),
		Code:    ExitUsage,
	}
}

// NoQuestions returns an error when the dialog was given nothing to ask.
func NoQuestions() *CLIError {
	return &CLIError{
		Message: "No questions provided",
		Hint:    "Pass --file questions.yaml or at least one --question with --option values",
		Code:    ExitUsage,
	}
}

// InvalidQuestions returns an error for a malformed question set.
func InvalidQuestions(cause error) *CLIError {
	return &CLIError{
		Message: "Invalid questions",
		Hint:    "Every question needs a unique id and at least one option or free-text choice",
		Cause:   cause,
		Code:    ExitUsage,
	}
}

// NoManifestEntries returns an error when setup has nothing to install.
func NoManifestEntries(names []string) *CLIError {
	msg := "No matching setup entries"
	if len(names) > 0 {
		msg = fmt.Sprintf("No matching setup entries: %s", strings.Join(names, ", "))
	}

	return &CLIError{
		Message: msg,
		Hint:    "Run 'agent-stuff setup --list' to see available entries",
		Code:    ExitUsage,
	}
}

// ManifestInvalid returns an error for an unreadable bundle manifest.
func ManifestInvalid(path string, cause error) *CLIError {
	where := path
	if where == "" {
		where = "bundle manifest"
	}

	return &CLIError{
		Message: fmt.Sprintf("Invalid manifest: %s", where),
		Hint:    "Each entry needs a unique name, a source inside the bundle and an absolute or ~/ target",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// SourceNotFound returns an error when the bundle directory is missing.
func SourceNotFound(dir string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Bundle directory not found: %s", dir),
		Hint:    "Pass --source or run 'agent-stuff config set setup.source <dir>'",
		Code:    ExitConfig,
	}
}

// LinkFailed returns an error when one or more entries failed to install.
func LinkFailed(failed int, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to install %d entr%s", failed, plural(failed, "y", "ies")),
		Hint:    "Check permissions on the target directories, or rerun with --dry-run to inspect the plan",
		Cause:   cause,
		Code:    ExitExecution,
	}
}

// ConfigFailed returns an error for configuration save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your agent-stuff config directory or run 'agent-stuff doctor'",
		Cause:   cause,
		Code:    ExitConfig,
	}
}

// Cancelled returns an error for a run the user dismissed.
func Cancelled(what string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("%s cancelled", what),
		Hint:    "No changes were made",
		Code:    ExitCancelled,
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
