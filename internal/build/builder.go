package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"

	"github.com/mmo/mmopack/pkg/release"
)

// Variables exported to the build command.
const (
	EnvProject       = "MMOPACK_PROJECT"
	EnvConfiguration = "MMOPACK_CONFIGURATION"
)

// ExecBuilder runs the build command as a child process.
type ExecBuilder struct {
	logger release.Logger
	getenv func(string) string
}

// NewExecBuilder creates a builder that logs through logger.
// Panics if logger is nil.
func NewExecBuilder(logger release.Logger) *ExecBuilder {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ExecBuilder{logger: logger, getenv: os.Getenv}
}

// Command returns the expanded argument vector for cfg without running it.
func (b *ExecBuilder) Command(cfg release.Config) ([]string, error) {
	vars := b.variables(cfg)
	args, err := shell.Fields(cfg.Build.Command, func(name string) string {
		if v, ok := vars[name]; ok {
			return v
		}
		return b.getenv(name)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid build command %q: %v: %w", cfg.Build.Command, err, release.ErrInvalidConfig)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("build command %q is empty after expansion: %w", cfg.Build.Command, release.ErrInvalidConfig)
	}
	return args, nil
}

// Build runs the build command in the base directory and waits for it.
func (b *ExecBuilder) Build(ctx context.Context, cfg release.Config) error {
	if cfg.Build.Skip {
		b.logger.Info("Skipping build, packaging existing output in %s", cfg.BaseDir)
		return nil
	}

	args, err := b.Command(cfg)
	if err != nil {
		return err
	}

	if cfg.Build.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Build.Timeout)
		defer cancel()
	}

	tail := newTailBuffer(release.MaxBuildOutputTail)
	var out io.Writer = tail
	lines := &lineLogger{logger: b.logger}
	if cfg.Verbose {
		out = io.MultiWriter(tail, lines)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = cfg.BaseDir
	cmd.Env = b.environ(cfg)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.WaitDelay = 5 * time.Second

	b.logger.Info("Building: %s", strings.Join(args, " "))
	start := time.Now()
	runErr := cmd.Run()
	lines.Flush()

	if runErr != nil {
		buildErr := &release.BuildError{Command: args, ExitCode: -1, Output: tail.String()}
		var exitErr *exec.ExitError
		switch {
		case ctx.Err() != nil:
			buildErr.Err = ctx.Err()
		case errors.As(runErr, &exitErr):
			buildErr.ExitCode = exitErr.ExitCode()
		default:
			buildErr.Err = runErr
		}
		return buildErr
	}

	b.logger.Verbose("Build finished in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func (b *ExecBuilder) variables(cfg release.Config) map[string]string {
	vars := map[string]string{
		EnvProject:       cfg.Resolve(cfg.Build.Project),
		EnvConfiguration: cfg.Build.Configuration,
	}
	for k, v := range cfg.Variables {
		vars[k] = v
	}
	return vars
}

func (b *ExecBuilder) environ(cfg release.Config) []string {
	env := os.Environ()
	for k, v := range b.variables(cfg) {
		env = append(env, k+"="+v)
	}
	return env
}

var _ release.Builder = (*ExecBuilder)(nil)
