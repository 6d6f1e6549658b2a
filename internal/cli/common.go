package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mmo/mmopack/internal/archive"
	"github.com/mmo/mmopack/internal/build"
	"github.com/mmo/mmopack/internal/config"
	"github.com/mmo/mmopack/internal/files/filesystem"
	"github.com/mmo/mmopack/internal/manifest"
	"github.com/mmo/mmopack/internal/params"
	"github.com/mmo/mmopack/internal/services"
	"github.com/mmo/mmopack/internal/tui"
	"github.com/mmo/mmopack/internal/ui"
	resolver "github.com/mmo/mmopack/internal/version"
	"github.com/mmo/mmopack/pkg/release"
)

// releaseFlagValues holds the flags shared by build, plan and resolve-version.
// Commands register only the subset they use; the rest stay at zero values.
type releaseFlagValues struct {
	configPath    string
	skipBuild     bool
	configuration string
	outputDir     string
	vars          []string
	envFiles      []string
	checksum      bool
	force         bool
	timeout       time.Duration
}

func addConfigFlags(cmd *cobra.Command, f *releaseFlagValues) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "",
		"Project config file (default: <base_dir>/"+config.ConfigFileName+")")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil,
		"Build variables as KEY=VALUE (can be specified multiple times)\n"+
			"Exported to the build command environment and usable as $KEY in it")
	cmd.Flags().StringArrayVar(&f.envFiles, "env-file", nil,
		"Load build variables from a dotenv file (can be specified multiple times)\n"+
			"Later files override earlier ones; --var overrides all files")
	_ = cmd.RegisterFlagCompletionFunc("env-file", completeEnvFiles)
}

// resolveConfig builds the release config for base_dir. Priority, lowest first:
// defaults, mmopack.yaml, env files, flags.
func resolveConfig(cmd *cobra.Command, args []string, f releaseFlagValues) (release.Config, error) {
	baseDir, err := filepath.Abs(baseDirArg(args))
	if err != nil {
		return release.Config{}, fmt.Errorf("invalid base directory: %w", err)
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return release.Config{}, &release.MissingFileError{Path: baseDir, Kind: "directory", Err: err}
	}
	if !info.IsDir() {
		return release.Config{}, fmt.Errorf("base directory %s is not a directory: %w", baseDir, release.ErrInvalidConfig)
	}

	// .env in the working directory and the base directory; neither is required
	_ = godotenv.Load()
	_ = godotenv.Load(filepath.Join(baseDir, ".env"))

	pc, err := loadProjectConfig(baseDir, f.configPath)
	if err != nil {
		return release.Config{}, err
	}
	cfg, err := config.Apply(release.DefaultConfig(baseDir), pc)
	if err != nil {
		return release.Config{}, err
	}

	fileVars, err := params.LoadEnvFiles(filesystem.NewOSFileSystem(), f.envFiles)
	if err != nil {
		return release.Config{}, fmt.Errorf("%v: %w", err, release.ErrInvalidConfig)
	}
	cliVars, err := params.ParseKeyValuePairs(f.vars)
	if err != nil {
		return release.Config{}, err
	}
	cfg.Variables = params.Merge(cfg.Variables, fileVars, cliVars)

	if f.skipBuild {
		cfg.Build.Skip = true
	}
	if f.configuration != "" {
		cfg.Build.Configuration = f.configuration
	}
	if f.outputDir != "" {
		cfg.Output.Dir = f.outputDir
	}
	if flag := cmd.Flags().Lookup("checksum"); flag != nil && flag.Changed {
		cfg.Checksum = f.checksum
	}
	if flag := cmd.Flags().Lookup("timeout"); flag != nil && flag.Changed {
		cfg.Build.Timeout = f.timeout
	}
	cfg.Force = f.force
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

func loadProjectConfig(baseDir, configPath string) (*config.ProjectConfig, error) {
	if configPath != "" {
		pc, err := config.LoadFile(configPath)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("config file %s not found: %w", configPath, release.ErrInvalidConfig)
		}
		return pc, err
	}

	pc, err := config.Load(baseDir)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	return pc, err
}

func newPackagingService(cfg release.Config, logger release.Logger) *services.PackagingService {
	fsProvider := filesystem.NewOSFileSystem()

	var builder release.Builder = build.NewExecBuilder(logger)
	if !cfg.Verbose && ui.IsInteractive() {
		builder = tui.NewBuilder(builder, os.Stderr)
	}

	return services.NewPackagingService(
		builder,
		resolver.NewResolverWithFS(fsProvider),
		manifest.NewBuilderWithFS(fsProvider),
		archive.NewWriter(fsProvider, logger, archive.WithCompressionLevel(cfg.Output.Compression)),
		ui.NewApprover(cfg.Force, cfg.Verbose),
		logger,
	)
}

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
