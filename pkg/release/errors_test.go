package release_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/mmo/mmopack/pkg/release"
)

func TestExitCodeForError_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown flag", errors.New("unknown flag: --foo"), release.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x' in -x"), release.ExitUsageError},
		{"unknown command", errors.New(`unknown command "pack" for "mmopack"`), release.ExitUsageError},
		{"accepts args", errors.New("accepts 1 arg(s), received 0"), release.ExitUsageError},
		{"accepts at most", errors.New("accepts at most 1 arg(s), received 2"), release.ExitUsageError},
		{"missing argument", errors.New("missing required argument: <archive>"), release.ExitUsageError},
		{"invalid argument", errors.New(`invalid argument "abc" for "--timeout" flag`), release.ExitUsageError},
		{"flag needs an argument", errors.New("flag needs an argument: --config"), release.ExitUsageError},
		{"general error", errors.New("something went wrong"), release.ExitGeneralError},
		{"nil error", nil, release.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := release.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeForError_SemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid config", fmt.Errorf("bad template: %w", release.ErrInvalidConfig), release.ExitConfigError},
		{"build error", &release.BuildError{Command: []string{"Devenv"}, ExitCode: 1}, release.ExitBuildFailure},
		{"missing file", &release.MissingFileError{Path: "readme.txt", Err: os.ErrNotExist}, release.ExitMissingFile},
		{"wrapped missing file", fmt.Errorf("packaging failed: %w", &release.MissingFileError{Path: "cards"}), release.ExitMissingFile},
		{"version parse", &release.VersionParseError{Name: "MMO_VERSION_MAJOR", File: "version.hpp", Reason: "definition not found"}, release.ExitVersionParse},
		{"approval denied", release.ErrApprovalDenied, release.ExitApprovalDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := release.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestBuildError(t *testing.T) {
	t.Run("exit status", func(t *testing.T) {
		err := &release.BuildError{Command: []string{"Devenv", "mmo.sln", "/build", "release"}, ExitCode: 1}
		want := `build command "Devenv mmo.sln /build release" exited with status 1`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, release.ErrBuildFailure) {
			t.Error("expected errors.Is(err, ErrBuildFailure)")
		}
	})

	t.Run("killed by timeout", func(t *testing.T) {
		err := &release.BuildError{Command: []string{"Devenv"}, ExitCode: -1, Err: context.DeadlineExceeded}
		want := `build command "Devenv" did not complete: context deadline exceeded`
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Error("expected the cause to be reachable through errors.Is")
		}
		if !errors.Is(err, release.ErrBuildFailure) {
			t.Error("expected errors.Is(err, ErrBuildFailure)")
		}
	})
}

func TestMissingFileError(t *testing.T) {
	err := &release.MissingFileError{Path: "client/bin/cards", Kind: "directory", Err: os.ErrNotExist}
	if got, want := err.Error(), "required directory not found: client/bin/cards: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected the cause to be reachable through errors.Is")
	}

	bare := &release.MissingFileError{Path: "mmd.txt"}
	if got, want := bare.Error(), "required file not found: mmd.txt"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestVersionParseError(t *testing.T) {
	err := &release.VersionParseError{File: "client/version.hpp", Name: "MMO_VERSION_MINOR", Reason: `value "x" is not an integer`}
	want := `MMO_VERSION_MINOR: value "x" is not an integer in client/version.hpp`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var target *release.VersionParseError
	if !errors.As(fmt.Errorf("resolve: %w", err), &target) || target.Name != "MMO_VERSION_MINOR" {
		t.Error("expected errors.As to recover the VersionParseError")
	}
}
