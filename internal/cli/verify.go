package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmo/mmopack/internal/archive"
	"github.com/mmo/mmopack/internal/checksum"
	"github.com/mmo/mmopack/internal/config"
	"github.com/mmo/mmopack/internal/manifest"
	"github.com/mmo/mmopack/internal/ui"
	"github.com/mmo/mmopack/pkg/release"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <archive>",
	Short: "List and check a release archive",
	Long: `Verify decompresses every entry of the archive, which checks each
entry's CRC-32, and lists the entries to stdout. When a <archive>.sha256
sidecar exists the archive's digest is checked against it.

With --source the manifest is collected from that source tree, exactly as
build would, and the archive must hold the same entries in the same order
with the same sizes.

Examples:
  mmopack verify mmo-0.1.9.zip
  mmopack verify dist/mmo-0.1.9_42.zip -v
  mmopack verify mmo-0.1.9.zip --source .`,
	Args:              RequireArchivePath,
	ValidArgsFunction: completeArchives,
	RunE:              runVerify,
}

var verifyFlags struct {
	source     string
	configPath string
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyFlags.source, "source", "",
		"Source tree the archive must match")
	verifyCmd.Flags().StringVarP(&verifyFlags.configPath, "config", "c", "",
		"Project config file used with --source (default: <source>/"+config.ConfigFileName+")")
	_ = verifyCmd.MarkFlagDirname("source")
}

func runVerify(cmd *cobra.Command, args []string) error {
	path := args[0]
	verbose := getVerboseFlag(cmd)

	if _, err := os.Stat(path); err != nil {
		return &release.MissingFileError{Path: path, Kind: "file", Err: err}
	}

	contents, err := archive.Check(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range contents.Entries {
		if verbose {
			fmt.Fprintf(out, "%10d  %s  %08x  %s\n", e.Size, e.Modified.Format("2006-01-02 15:04"), e.CRC32, e.Name)
		} else {
			fmt.Fprintln(out, e.Name)
		}
	}

	errOut := cmd.ErrOrStderr()
	if contents.Version != "" {
		fmt.Fprintln(errOut, ui.LabelStyle.Render("Version")+ui.ValueStyle.Render(contents.Version))
		fmt.Fprintln(errOut, ui.LabelStyle.Render("Release ID")+ui.ValueStyle.Render(contents.ReleaseID.String()))
	}

	sum, err := checksum.VerifySidecar(checksum.New(), path)
	switch {
	case err == nil:
		fmt.Fprintln(errOut, ui.LabelStyle.Render("SHA-256")+ui.ValueStyle.Render(sum))
	case errors.Is(err, fs.ErrNotExist):
		if verbose {
			fmt.Fprintln(errOut, ui.WarningStyle.Render("no checksum sidecar at "+checksum.SidecarPath(path)))
		}
	default:
		return err
	}

	if verifyFlags.source != "" {
		if err := matchSource(cmd, contents); err != nil {
			return err
		}
		fmt.Fprintln(errOut, ui.LabelStyle.Render("Source")+ui.ValueStyle.Render(verifyFlags.source))
	}

	fmt.Fprintln(errOut, ui.SuccessStyle.Render(fmt.Sprintf("%s %d entries OK", ui.SymbolCheck, len(contents.Entries))))
	return nil
}

func matchSource(cmd *cobra.Command, contents archive.Contents) error {
	cfg, err := resolveConfig(cmd, []string{verifyFlags.source}, releaseFlagValues{configPath: verifyFlags.configPath})
	if err != nil {
		return err
	}
	m, err := manifest.NewBuilder().Collect(cfg)
	if err != nil {
		return err
	}
	if err := contents.Match(m); err != nil {
		return fmt.Errorf("verify against %s: %w", verifyFlags.source, err)
	}
	return nil
}
