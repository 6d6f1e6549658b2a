package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmo/mmopack/internal/logging"
	"github.com/mmo/mmopack/internal/ui"
	"github.com/mmo/mmopack/pkg/release"
)

var buildCmd = &cobra.Command{
	Use:   "build [base_dir]",
	Short: "Build the solution and package a release archive",
	Long: `Build runs the full release sequence in base_dir (default: current directory):

1. Runs the build command for the configured project and configuration
2. Reads the version constants from the version header
3. Collects the fixed files and walked resource trees
4. Asks before replacing an archive that already exists
5. Writes the archive atomically and, optionally, a .sha256 sidecar

Any failed step stops the run; a failed run never leaves a partial archive
at the destination path.

The archive path is printed to stdout. The summary goes to stderr.

Examples:
  # Build and package the tree in the current directory
  mmopack build

  # Package what is already built
  mmopack build ./mmo --skip-build

  # Debug build with a checksum, written to dist/
  mmopack build --configuration debug --checksum -o dist

  # CI: never prompt, abort a hung build
  mmopack build --force --timeout 30m`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeBaseDir,
	RunE:              runBuild,
}

var buildFlags releaseFlagValues

func init() {
	rootCmd.AddCommand(buildCmd)

	addConfigFlags(buildCmd, &buildFlags)
	buildCmd.Flags().BoolVar(&buildFlags.skipBuild, "skip-build", false,
		"Do not run the build command; package the files already on disk")
	buildCmd.Flags().StringVar(&buildFlags.configuration, "configuration", "",
		"Solution configuration to build, exported as $MMOPACK_CONFIGURATION (default: release)")
	buildCmd.Flags().StringVarP(&buildFlags.outputDir, "output-dir", "o", "",
		"Directory the archive is written to (default: base_dir)")
	buildCmd.Flags().BoolVar(&buildFlags.checksum, "checksum", false,
		"Write a <archive>.sha256 file next to the archive")
	buildCmd.Flags().BoolVar(&buildFlags.force, "force", false,
		"Replace an existing archive without asking")
	buildCmd.Flags().DurationVar(&buildFlags.timeout, "timeout", 0,
		"Abort the build command after this duration (e.g. 20m, 1h)")
	_ = buildCmd.MarkFlagDirname("output-dir")
}

func runBuild(cmd *cobra.Command, args []string) error {
	return packageRelease(cmd, args, buildFlags)
}

// packageRelease runs the release sequence for base_dir with the given flags.
func packageRelease(cmd *cobra.Command, args []string, f releaseFlagValues) error {
	cfg, err := resolveConfig(cmd, args, f)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(cfg.Verbose)
	svc := newPackagingService(cfg, logger)

	ctx, cancel := signalContext()
	defer cancel()

	result, err := svc.Package(ctx, cfg)
	if err != nil {
		var buildErr *release.BuildError
		if errors.As(err, &buildErr) && buildErr.Output != "" && !cfg.Verbose {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorStyle.Render(ui.SymbolCross+" Build output (tail):"))
			fmt.Fprintln(cmd.ErrOrStderr(), buildErr.Output)
		}
		return fmt.Errorf("packaging failed: %w", err)
	}

	ui.RenderResult(cmd.ErrOrStderr(), result)
	fmt.Fprintln(cmd.OutOrStdout(), result.ArchivePath)
	return nil
}
