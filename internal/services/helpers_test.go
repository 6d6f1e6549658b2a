package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mmo/mmopack/internal/archive"
	"github.com/mmo/mmopack/internal/files/filesystem"
	"github.com/mmo/mmopack/internal/logging"
	"github.com/mmo/mmopack/internal/manifest"
	"github.com/mmo/mmopack/internal/version"
	"github.com/mmo/mmopack/pkg/release"
)

const versionHeader = `#pragma once
#define MMO_VERSION_MAJOR 0
#define MMO_VERSION_MINOR 1
#define MMO_VERSION_REVISION 9
`

// releaseTree is the source layout of a typical release.
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

type fakeBuilder struct {
	calls int
	err   error
}

func (b *fakeBuilder) Build(_ context.Context, _ release.Config) error {
	b.calls++
	return b.err
}

type fakeApprover struct {
	calls    int
	approved bool
	err      error
}

func (a *fakeApprover) RequestApproval(_ context.Context, _ string, _ release.Version) (bool, error) {
	a.calls++
	return a.approved, a.err
}

type countingResolver struct {
	release.VersionResolver
	calls int
}

func (r *countingResolver) Resolve(cfg release.Config) (release.Version, error) {
	r.calls++
	return r.VersionResolver.Resolve(cfg)
}

type harness struct {
	svc      *PackagingService
	builder  *fakeBuilder
	approver *fakeApprover
	resolver *countingResolver
}

func newHarness() *harness {
	h := &harness{
		builder:  &fakeBuilder{},
		approver: &fakeApprover{},
		resolver: &countingResolver{VersionResolver: version.NewResolver()},
	}
	logger := logging.NewNullLogger()
	h.svc = NewPackagingService(
		h.builder,
		h.resolver,
		manifest.NewBuilder(),
		archive.NewWriter(filesystem.NewOSFileSystem(), logger),
		h.approver,
		logger,
	)
	return h
}
