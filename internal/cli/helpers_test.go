package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const versionHeader = `#pragma once
#define MMO_VERSION_MAJOR 0
#define MMO_VERSION_MINOR 1
#define MMO_VERSION_REVISION 9
`

var releaseTree = map[string]string{
	"client/version.hpp":           versionHeader,
	"release/client.exe":           "MZ client",
	"readme.txt":                   "readme",
	"license.txt":                  "license",
	"mmd.txt":                      "mmd",
	"client/bin/config.json":       "{}",
	"client/bin/server/server.exe": "MZ server",
	"client/bin/cards/a.txt":       "card a",
	"client/bin/resources/x.png":   "png",
}

func writeTree(t *testing.T, base string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func newReleaseDir(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	writeTree(t, base, releaseTree)
	return base
}

// resetCommand clears flag state left by earlier tests and captures output.
func resetCommand(cmd *cobra.Command) (stdout, stderr *bytes.Buffer) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return stdout, stderr
}

func resetBuildFlags() (stdout, stderr *bytes.Buffer) {
	buildFlags = releaseFlagValues{}
	return resetCommand(buildCmd)
}

func resetPlanFlags() (stdout, stderr *bytes.Buffer) {
	planFlags = releaseFlagValues{}
	return resetCommand(planCmd)
}

func resetResolveVersionFlags() (stdout, stderr *bytes.Buffer) {
	resolveVersionFlags = releaseFlagValues{}
	return resetCommand(resolveVersionCmd)
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
