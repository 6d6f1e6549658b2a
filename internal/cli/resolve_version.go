package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	resolver "github.com/mmo/mmopack/internal/version"
)

var resolveVersionCmd = &cobra.Command{
	Use:   "resolve-version [base_dir]",
	Short: "Print the release version read from the version header",
	Long: `Resolve-version reads the version constants and prints the version
string, e.g. 0.1.9 or 0.1.9_42 when a build number is present.

Examples:
  mmopack resolve-version
  VERSION=$(mmopack resolve-version ./mmo)`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeBaseDir,
	RunE:              runResolveVersion,
}

var resolveVersionFlags releaseFlagValues

func init() {
	rootCmd.AddCommand(resolveVersionCmd)
	resolveVersionCmd.Flags().StringVarP(&resolveVersionFlags.configPath, "config", "c", "",
		"Project config file (default: <base_dir>/mmopack.yaml)")
}

func runResolveVersion(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, resolveVersionFlags)
	if err != nil {
		return err
	}

	v, err := resolver.NewResolver().Resolve(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.String())
	return nil
}
