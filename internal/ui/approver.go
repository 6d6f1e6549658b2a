package ui

import "github.com/mmo/mmopack/pkg/release"

// NewApprover picks the approver for the current session: forced when force
// is set or the session cannot prompt, interactive otherwise.
func NewApprover(force, verbose bool) release.Approver {
	if force || !IsInteractive() {
		return NewForcedApprover(verbose)
	}
	return NewInteractiveApprover(verbose)
}
