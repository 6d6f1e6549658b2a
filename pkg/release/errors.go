package release

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := packager.Package(ctx, cfg)
//	if errors.Is(err, release.ErrMissingFile) {
//	    // A manifest source was absent
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBuildFailure indicates the external build tool reported failure.
	ErrBuildFailure = errors.New("build failed")

	// ErrMissingFile indicates a required file or directory was not found.
	ErrMissingFile = errors.New("missing file")

	// ErrVersionParse indicates a version constant was absent or not an integer.
	ErrVersionParse = errors.New("version parse error")

	// ErrApprovalDenied indicates the user declined to overwrite an existing archive.
	ErrApprovalDenied = errors.New("approval denied")
)

// BuildError describes a failed invocation of the external build tool.
type BuildError struct {
	Command  []string
	ExitCode int    // -1 when the process could not be started or was killed
	Output   string // trailing build output, may be empty
	Err      error
}

func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "build command %q", strings.Join(e.Command, " "))
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else {
		b.WriteString(" did not complete")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *BuildError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBuildFailure}
	}
	return []error{ErrBuildFailure, e.Err}
}

// MissingFileError reports a manifest or version source that does not exist
// or has the wrong type.
type MissingFileError struct {
	Path string
	Kind string // "file" or "directory"
	Err  error
}

func (e *MissingFileError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = "file"
	}
	if e.Err != nil {
		return fmt.Sprintf("required %s not found: %s: %v", kind, e.Path, e.Err)
	}
	return fmt.Sprintf("required %s not found: %s", kind, e.Path)
}

func (e *MissingFileError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMissingFile}
	}
	return []error{ErrMissingFile, e.Err}
}

// VersionParseError reports a version constant that could not be extracted.
type VersionParseError struct {
	File   string
	Name   string
	Reason string
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("%s: %s in %s", e.Name, e.Reason, e.File)
}

func (e *VersionParseError) Unwrap() error { return ErrVersionParse }

var usageErrorPrefixes = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrBuildFailure):
		return ExitBuildFailure
	case errors.Is(err, ErrMissingFile):
		return ExitMissingFile
	case errors.Is(err, ErrVersionParse):
		return ExitVersionParse
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	}

	// cobra reports flag and argument problems as plain errors
	errStr := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}
	if strings.Contains(errStr, "arg(s), received") ||
		strings.Contains(errStr, "accepts at most") {
		return ExitUsageError
	}

	return ExitGeneralError
}
