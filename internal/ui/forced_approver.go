package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mmo/mmopack/pkg/release"
)

// ForcedApprover approves every overwrite without asking. It is used with
// --force and whenever no terminal is attached, which matches the plain
// truncate-and-rewrite behavior scripts expect.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
}

// NewForcedApprover creates a ForcedApprover writing notices to stderr.
func NewForcedApprover(verbose bool) release.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr}
}

// RequestApproval approves unless ctx is already done.
func (a *ForcedApprover) RequestApproval(ctx context.Context, archivePath string, version release.Version) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a.verbose {
		fmt.Fprintln(a.output, WarningStyle.Render(fmt.Sprintf("Replacing existing archive %s with release %s", archivePath, version)))
	}
	return true, nil
}

var _ release.Approver = (*ForcedApprover)(nil)
