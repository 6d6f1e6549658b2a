package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmo/mmopack/internal/archive"
	"github.com/mmo/mmopack/internal/build"
	"github.com/mmo/mmopack/internal/checksum"
	"github.com/mmo/mmopack/internal/config"
	"github.com/mmo/mmopack/internal/logging"
	"github.com/mmo/mmopack/pkg/release"
)

func TestBuildCmd_ArgsValidation_TooMany(t *testing.T) {
	err := buildCmd.Args(buildCmd, []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, release.ExitUsageError, release.ExitCodeForError(err))
}

func TestRootCmd_NoArgumentsBuildsRelease(t *testing.T) {
	base := newReleaseDir(t)
	writeTree(t, base, map[string]string{config.ConfigFileName: "build:\n  skip: true\n"})
	chdir(t, base)

	stdout, _ := resetCommand(rootCmd)
	rootCmd.SetArgs([]string{})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "mmo-0.1.9.zip", filepath.Base(strings.TrimSpace(stdout.String())))
	assert.FileExists(t, filepath.Join(base, "mmo-0.1.9.zip"))
}

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{"./mmo"})
	require.Error(t, err)
	assert.Equal(t, release.ExitUsageError, release.ExitCodeForError(err))
}

func TestBuildCmd_ConfigurationFlag(t *testing.T) {
	base := newReleaseDir(t)
	resetBuildFlags()
	buildFlags.configuration = "debug"

	cfg, err := resolveConfig(buildCmd, []string{base}, buildFlags)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Build.Configuration)

	argv, err := build.NewExecBuilder(logging.NewNullLogger()).Command(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Devenv", cfg.Resolve("mmo.sln"), "/build", "debug"}, argv)
}

func TestVerifyCmd_ArgsValidation(t *testing.T) {
	err := verifyCmd.Args(verifyCmd, []string{})
	require.Error(t, err)
	assert.Equal(t, release.ExitUsageError, release.ExitCodeForError(err))
}

func TestBuildCmd_SkipBuildPackagesTree(t *testing.T) {
	base := newReleaseDir(t)
	stdout, stderr := resetBuildFlags()
	buildFlags.skipBuild = true

	require.NoError(t, runBuild(buildCmd, []string{base}))

	archivePath := filepath.Join(base, "mmo-0.1.9.zip")
	assert.Equal(t, archivePath, strings.TrimSpace(stdout.String()))
	assert.FileExists(t, archivePath)
	assert.Contains(t, stderr.String(), "Release packaged")
}

func TestBuildCmd_MissingFileLeavesNoArchive(t *testing.T) {
	base := newReleaseDir(t)
	require.NoError(t, os.Remove(filepath.Join(base, "client", "bin", "config.json")))
	resetBuildFlags()
	buildFlags.skipBuild = true

	err := runBuild(buildCmd, []string{base})
	require.Error(t, err)
	assert.Equal(t, release.ExitMissingFile, release.ExitCodeForError(err))
	assert.NoFileExists(t, filepath.Join(base, "mmo-0.1.9.zip"))
}

func TestBuildCmd_NonexistentBaseDir(t *testing.T) {
	resetBuildFlags()
	buildFlags.skipBuild = true

	err := runBuild(buildCmd, []string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Equal(t, release.ExitMissingFile, release.ExitCodeForError(err))
}

func TestBuildCmd_ChecksumAndOutputDir(t *testing.T) {
	base := newReleaseDir(t)
	stdout, _ := resetBuildFlags()
	buildFlags.skipBuild = true
	buildFlags.outputDir = "dist"
	require.NoError(t, buildCmd.Flags().Set("checksum", "true"))

	require.NoError(t, runBuild(buildCmd, []string{base}))

	archivePath := filepath.Join(base, "dist", "mmo-0.1.9.zip")
	assert.Equal(t, archivePath, strings.TrimSpace(stdout.String()))
	assert.FileExists(t, checksum.SidecarPath(archivePath))

	_, err := checksum.VerifySidecar(checksum.New(), archivePath)
	assert.NoError(t, err)
}

func TestBuildCmd_ReplacesExistingArchiveWithForce(t *testing.T) {
	base := newReleaseDir(t)
	archivePath := filepath.Join(base, "mmo-0.1.9.zip")
	require.NoError(t, os.WriteFile(archivePath, []byte("stale"), 0o644))

	resetBuildFlags()
	buildFlags.skipBuild = true
	buildFlags.force = true

	require.NoError(t, runBuild(buildCmd, []string{base}))

	data, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
}

func TestPlanCmd_ListsEntries(t *testing.T) {
	base := newReleaseDir(t)
	stdout, _ := resetPlanFlags()

	require.NoError(t, runPlan(planCmd, []string{base}))

	out := stdout.String()
	assert.Contains(t, out, "Release plan")
	assert.Contains(t, out, "0.1.9")
	for _, name := range []string{"client.exe", "server/server.exe", "cards/a.txt", "resources/x.png"} {
		assert.Contains(t, out, name)
	}
	assert.NoFileExists(t, filepath.Join(base, "mmo-0.1.9.zip"))
}

func TestResolveVersionCmd(t *testing.T) {
	t.Run("without build number", func(t *testing.T) {
		base := newReleaseDir(t)
		stdout, _ := resetResolveVersionFlags()

		require.NoError(t, runResolveVersion(resolveVersionCmd, []string{base}))
		assert.Equal(t, "0.1.9\n", stdout.String())
	})

	t.Run("with build number", func(t *testing.T) {
		base := newReleaseDir(t)
		writeTree(t, base, map[string]string{
			"client/buildversion.hpp": "#define MMO_VERSION_BUILD 42\n",
		})
		stdout, _ := resetResolveVersionFlags()

		require.NoError(t, runResolveVersion(resolveVersionCmd, []string{base}))
		assert.Equal(t, "0.1.9_42\n", stdout.String())
	})

	t.Run("project config overrides prefix", func(t *testing.T) {
		base := t.TempDir()
		writeTree(t, base, map[string]string{
			"include/ver.h": "#define GAME_MAJOR 3\n#define GAME_MINOR 0\n#define GAME_REVISION 1\n",
			config.ConfigFileName: "version:\n  file: include/ver.h\n  build_file: \"\"\n  prefix: GAME_\n",
		})
		stdout, _ := resetResolveVersionFlags()

		require.NoError(t, runResolveVersion(resolveVersionCmd, []string{base}))
		assert.Equal(t, "3.0.1\n", stdout.String())
	})

	t.Run("malformed header", func(t *testing.T) {
		base := newReleaseDir(t)
		writeTree(t, base, map[string]string{
			"client/version.hpp": "#define MMO_VERSION_MAJOR x\n",
		})
		resetResolveVersionFlags()

		err := runResolveVersion(resolveVersionCmd, []string{base})
		require.Error(t, err)
		assert.Equal(t, release.ExitVersionParse, release.ExitCodeForError(err))
	})

	t.Run("explicit config missing", func(t *testing.T) {
		base := newReleaseDir(t)
		resetResolveVersionFlags()
		resolveVersionFlags.configPath = filepath.Join(base, "absent.yaml")

		err := runResolveVersion(resolveVersionCmd, []string{base})
		require.Error(t, err)
		assert.Equal(t, release.ExitConfigError, release.ExitCodeForError(err))
	})
}

func TestVerifyCmd(t *testing.T) {
	base := newReleaseDir(t)
	resetBuildFlags()
	buildFlags.skipBuild = true
	require.NoError(t, buildCmd.Flags().Set("checksum", "true"))
	require.NoError(t, runBuild(buildCmd, []string{base}))
	archivePath := filepath.Join(base, "mmo-0.1.9.zip")

	t.Run("lists entries", func(t *testing.T) {
		stdout, stderr := resetCommand(verifyCmd)

		require.NoError(t, runVerify(verifyCmd, []string{archivePath}))
		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		assert.Len(t, lines, 8)
		assert.Equal(t, "client.exe", lines[0])
		assert.Contains(t, stderr.String(), "8 entries OK")
		assert.Contains(t, stderr.String(), "0.1.9")
	})

	t.Run("matches source tree", func(t *testing.T) {
		_, stderr := resetCommand(verifyCmd)
		verifyFlags.source = base
		defer func() { verifyFlags.source = "" }()

		require.NoError(t, runVerify(verifyCmd, []string{archivePath}))
		assert.Contains(t, stderr.String(), "8 entries OK")
	})

	t.Run("source tree changed", func(t *testing.T) {
		extra := filepath.Join(base, "client", "bin", "cards", "b.txt")
		require.NoError(t, os.WriteFile(extra, []byte("card b"), 0o644))
		defer os.Remove(extra)
		resetCommand(verifyCmd)
		verifyFlags.source = base
		defer func() { verifyFlags.source = "" }()

		err := runVerify(verifyCmd, []string{archivePath})
		assert.ErrorIs(t, err, archive.ErrManifestMismatch)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		sidecar := checksum.SidecarPath(archivePath)
		bad := strings.Repeat("0", 64) + "  mmo-0.1.9.zip\n"
		require.NoError(t, os.WriteFile(sidecar, []byte(bad), 0o644))
		resetCommand(verifyCmd)

		err := runVerify(verifyCmd, []string{archivePath})
		assert.ErrorIs(t, err, checksum.ErrChecksumMismatch)
	})

	t.Run("missing archive", func(t *testing.T) {
		resetCommand(verifyCmd)

		err := runVerify(verifyCmd, []string{filepath.Join(base, "absent.zip")})
		require.Error(t, err)
		assert.Equal(t, release.ExitMissingFile, release.ExitCodeForError(err))
	})
}

func TestInitCmd(t *testing.T) {
	base := t.TempDir()
	stdout, _ := resetCommand(initCmd)
	initFlags.force = false

	require.NoError(t, runInit(initCmd, []string{base}))
	path := filepath.Join(base, config.ConfigFileName)
	assert.Equal(t, path, strings.TrimSpace(stdout.String()))

	pc, err := config.Load(base)
	require.NoError(t, err)
	cfg, err := config.Apply(release.DefaultConfig(base), pc)
	require.NoError(t, err)
	assert.Equal(t, release.DefaultConfig(base), cfg)

	err = runInit(initCmd, []string{base})
	require.Error(t, err)
	assert.Equal(t, release.ExitConfigError, release.ExitCodeForError(err))

	initFlags.force = true
	defer func() { initFlags.force = false }()
	assert.NoError(t, runInit(initCmd, []string{base}))
}

func TestResolveConfig_VariablePriority(t *testing.T) {
	base := newReleaseDir(t)
	writeTree(t, base, map[string]string{
		config.ConfigFileName: "variables:\n  A: yaml\n  B: yaml\n  C: yaml\n",
		"ci.env":              "B=env\nC=env\n",
	})
	resetPlanFlags()

	cfg, err := resolveConfig(planCmd, []string{base}, releaseFlagValues{
		envFiles: []string{filepath.Join(base, "ci.env")},
		vars:     []string{"C=cli"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "yaml", "B": "env", "C": "cli"}, cfg.Variables)
}

func TestResolveConfig_FlagOverrides(t *testing.T) {
	base := newReleaseDir(t)
	writeTree(t, base, map[string]string{
		config.ConfigFileName: "checksum: true\nbuild:\n  timeout: 10m\n",
	})
	resetBuildFlags()
	require.NoError(t, buildCmd.Flags().Set("checksum", "false"))
	require.NoError(t, buildCmd.Flags().Set("timeout", "90s"))

	cfg, err := resolveConfig(buildCmd, []string{base}, buildFlags)
	require.NoError(t, err)
	assert.False(t, cfg.Checksum)
	assert.Equal(t, "1m30s", cfg.Build.Timeout.String())
	assert.Equal(t, base, cfg.BaseDir)
}

func TestResolveConfig_BadEnvFile(t *testing.T) {
	base := newReleaseDir(t)
	resetPlanFlags()

	_, err := resolveConfig(planCmd, []string{base}, releaseFlagValues{
		envFiles: []string{filepath.Join(base, "absent.env")},
	})
	require.Error(t, err)
	assert.Equal(t, release.ExitConfigError, release.ExitCodeForError(err))
}
