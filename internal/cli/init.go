package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmo/mmopack/internal/config"
	"github.com/mmo/mmopack/pkg/release"
)

var initCmd = &cobra.Command{
	Use:   "init [base_dir]",
	Short: "Write a mmopack.yaml describing the default release layout",
	Long: `Init writes mmopack.yaml into base_dir (default: current directory) with
the built-in release layout spelled out, as a starting point for changes.

Examples:
  mmopack init
  mmopack init ./mmo --force`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeBaseDir,
	RunE:              runInit,
}

var initFlags struct {
	force bool
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite an existing mmopack.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	baseDir, err := filepath.Abs(baseDirArg(args))
	if err != nil {
		return fmt.Errorf("invalid base directory: %w", err)
	}
	if info, err := os.Stat(baseDir); err != nil || !info.IsDir() {
		return &release.MissingFileError{Path: baseDir, Kind: "directory", Err: err}
	}

	path := filepath.Join(baseDir, config.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !initFlags.force {
		return fmt.Errorf("%s already exists (use --force to overwrite): %w", path, release.ErrInvalidConfig)
	}

	if err := config.Save(path, config.FromConfig(release.DefaultConfig(baseDir))); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if getVerboseFlag(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[VERBOSE] wrote default layout to %s\n", path)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
