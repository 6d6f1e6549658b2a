package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

const asciiLogo = `                                              _
 _ __ ___  _ __ ___   ___  _ __   __ _  ___| | __
| '_ ' _ \| '_ ' _ \ / _ \| '_ \ / _' |/ __| |/ /
| | | | | | | | | | | (_) | |_) | (_| | (__|   <
|_| |_| |_|_| |_| |_|\___/| .__/ \__,_|\___|_|\_\
                          |_|`

var rootCmd = &cobra.Command{
	Use:   "mmopack",
	Short: "Build and package MMO client releases",
	Long: asciiLogo + `

mmopack triggers the solution build, reads the release version from the
generated version header, and assembles the client, server, config and
resource trees into a single versioned zip archive.

Running 'mmopack' with no arguments in the source tree root is the same as
'mmopack build': it builds and packages the default release layout. A
mmopack.yaml in the base directory overrides it.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  12 - User denied overwrite approval
  20 - Build failed
  21 - Required file or directory missing
  22 - Version header could not be parsed`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return packageRelease(cmd, args, releaseFlagValues{})
	},
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value.
// Flag walks up to the root's persistent flags, so this also works before
// cobra has merged them into the subcommand.
func getVerboseFlag(cmd *cobra.Command) bool {
	flag := cmd.Flag("verbose")
	if flag == nil {
		fmt.Fprintf(os.Stderr, "Warning: verbose flag is not defined for %s\n", cmd.Name())
		return false
	}
	verbose, err := strconv.ParseBool(flag.Value.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
