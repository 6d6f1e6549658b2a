package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmo/mmopack/pkg/release"
)

// RunWithSpinner runs work while drawing a spinner on out and returns
// work's error. The program reads no input and installs no signal handler,
// so Ctrl+C reaches the caller's context as usual.
func RunWithSpinner(ctx context.Context, out io.Writer, message string, work func(context.Context) error) error {
	p := tea.NewProgram(newSpinnerModel(message),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	errCh := make(chan error, 1)
	go func() {
		err := work(ctx)
		errCh <- err
		p.Send(workDoneMsg{err: err})
	}()

	// A failed display never fails the work; its result is what counts.
	_, _ = p.Run()
	return <-errCh
}

// Builder shows a spinner while the wrapped builder runs.
type Builder struct {
	inner release.Builder
	out   io.Writer
}

var _ release.Builder = (*Builder)(nil)

// NewBuilder wraps inner so its progress is drawn on out.
func NewBuilder(inner release.Builder, out io.Writer) *Builder {
	if inner == nil {
		panic("inner builder cannot be nil")
	}
	if out == nil {
		panic("output cannot be nil")
	}
	return &Builder{inner: inner, out: out}
}

func (b *Builder) Build(ctx context.Context, cfg release.Config) error {
	if cfg.Build.Skip {
		return b.inner.Build(ctx, cfg)
	}
	message := fmt.Sprintf("Building %s (%s)", cfg.Build.Project, cfg.Build.Configuration)
	return RunWithSpinner(ctx, b.out, message, func(ctx context.Context) error {
		return b.inner.Build(ctx, cfg)
	})
}
