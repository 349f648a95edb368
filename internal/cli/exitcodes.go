package cli

import (
	"errors"

	"github.com/yaklabco/gonmc/internal/configloader"
	"github.com/yaklabco/gonmc/pkg/runner"
)

// Exit codes for gonmc.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitErrors indicates documents had errors, were rejected or could
	// not be read. Command failures also exit with this code.
	ExitErrors = 1

	// ExitWarnings indicates warnings were found under --strict.
	ExitWarnings = 2

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65
)

// ErrIssuesFound is returned when a command found diagnostics that fail the
// run. It only signals the exit code and is not printed.
var ErrIssuesFound = errors.New("issues found")

// issuesError carries the exit code for ErrIssuesFound.
type issuesError struct {
	code int
}

func (e *issuesError) Error() string { return ErrIssuesFound.Error() }

func (e *issuesError) Unwrap() error { return ErrIssuesFound }

// ExitCodeFromResult determines the exit code based on result and strict mode.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	switch {
	case result == nil:
		return ExitSuccess
	case result.HasFailures():
		return ExitErrors
	case strict && result.HasWarnings():
		return ExitWarnings
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var issues *issuesError
	if errors.As(err, &issues) {
		return issues.code
	}

	var vErr *configloader.ValidationError
	if errors.As(err, &vErr) {
		return ExitConfigError
	}

	return ExitErrors
}

// resultError returns the error a command should return for result.
func resultError(result *runner.Result, strict bool) error {
	if code := ExitCodeFromResult(result, strict); code != ExitSuccess {
		return &issuesError{code: code}
	}
	return nil
}
