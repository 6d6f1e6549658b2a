package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireArchivePath validates that exactly one archive argument is provided.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireArchivePath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <archive>

Usage: %s

Example:
  %s mmo-0.1.9.zip`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// baseDirArg returns the optional base directory argument, defaulting to
// the working directory.
func baseDirArg(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "."
	}
	return args[0]
}
