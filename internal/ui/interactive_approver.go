package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mmo/mmopack/pkg/release"
)

// InteractiveApprover asks the user to type the release version before an
// existing archive is replaced.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover on stdin and stderr.
func NewInteractiveApprover(verbose bool) release.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts for the version string and approves only on an exact match.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, archivePath string, version release.Version) (bool, error) {
	want := version.String()
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, WarningStyle.Render(fmt.Sprintf("%s already exists.", archivePath)))
	fmt.Fprintf(a.output, "To replace it, type the version '%s' and press Enter: ", want)

	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil && line == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == want {
			fmt.Fprintln(a.output, SuccessStyle.Render(SymbolCheck+" Confirmed. Replacing archive..."))
			return true, nil
		}
		fmt.Fprintln(a.output, ErrorStyle.Render(fmt.Sprintf("%s Input '%s' does not match version '%s'. Archive left unchanged.", SymbolCross, input, want)))
		return false, nil
	}
}

var _ release.Approver = (*InteractiveApprover)(nil)
