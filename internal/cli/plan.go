package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmo/mmopack/internal/logging"
	"github.com/mmo/mmopack/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan [base_dir]",
	Short: "Show what a release would contain without building or writing",
	Long: `Plan resolves the version and collects the manifest exactly as build
would, then prints the destination and every entry. Nothing is built and
nothing is written.

Examples:
  mmopack plan
  mmopack plan ./mmo --config release.yaml`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeBaseDir,
	RunE:              runPlan,
}

var planFlags releaseFlagValues

func init() {
	rootCmd.AddCommand(planCmd)

	addConfigFlags(planCmd, &planFlags)
	planCmd.Flags().StringVarP(&planFlags.outputDir, "output-dir", "o", "",
		"Directory the archive would be written to (default: base_dir)")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args, planFlags)
	if err != nil {
		return err
	}

	svc := newPackagingService(cfg, logging.NewConsoleLogger(cfg.Verbose))

	ctx, cancel := signalContext()
	defer cancel()

	plan, err := svc.Plan(ctx, cfg)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	ui.RenderPlan(cmd.OutOrStdout(), plan)
	return nil
}
