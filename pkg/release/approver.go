package release

import "context"

// Approver handles user interaction before an existing release archive is replaced.
//
// Implementations:
//   - ForcedApprover: Logs the overwrite and approves
//   - InteractiveApprover: Prompts the user to type the version to confirm
type Approver interface {
	// RequestApproval asks whether the archive at archivePath, which already
	// exists, may be replaced by the archive for version.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, archivePath string, version Version) (bool, error)
}
