package release

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Archive produced successfully
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration or variables
	ExitApprovalDenied = 12 // User declined to overwrite an existing archive
	ExitBuildFailure   = 20 // External build tool failed
	ExitMissingFile    = 21 // Required file or directory absent
	ExitVersionParse   = 22 // Version constant missing or malformed
)

const (
	// DefaultVersionPrefix is prepended to MAJOR, MINOR, REVISION and BUILD
	// when looking up version constants.
	DefaultVersionPrefix = "MMO_VERSION_"

	// DefaultNameTemplate renders the archive file name from the resolved version.
	DefaultNameTemplate = "mmo-{{.Version}}.zip"

	// DefaultCompressionLevel leaves the DEFLATE speed/size trade-off to the compressor.
	DefaultCompressionLevel = -1

	// DefaultBuildConfiguration is passed to the build tool as the configuration argument.
	DefaultBuildConfiguration = "release"

	// DefaultBuildCommand invokes the IDE build tool. $MMOPACK_PROJECT and
	// $MMOPACK_CONFIGURATION are expanded by the build trigger.
	DefaultBuildCommand = `Devenv "$MMOPACK_PROJECT" /build $MMOPACK_CONFIGURATION`

	// DefaultRenameAttempts bounds retries when moving the finished archive into place.
	DefaultRenameAttempts = 5

	// DefaultRenameInitialDelay is the first backoff delay between rename attempts.
	DefaultRenameInitialDelay = 50 * time.Millisecond

	// DefaultRenameMaxDelay caps the backoff delay between rename attempts.
	DefaultRenameMaxDelay = 2 * time.Second

	// MaxBuildOutputTail is the number of trailing bytes of build output kept
	// for error reporting.
	MaxBuildOutputTail = 4096

	// ChecksumSuffix is appended to the archive path for the SHA-256 sidecar.
	ChecksumSuffix = ".sha256"
)
