package release

import "context"

// Builder triggers the external build that produces the release binaries
// and the generated version header.
type Builder interface {
	// Build blocks until the build tool exits. A non-zero exit status is
	// reported as a *BuildError.
	Build(ctx context.Context, cfg Config) error
}

// VersionResolver derives the release version from the constants files.
type VersionResolver interface {
	Resolve(cfg Config) (Version, error)
}

// ManifestBuilder enumerates the files that make up a release.
type ManifestBuilder interface {
	// Collect verifies every source exists and returns entries in archive order.
	Collect(cfg Config) (Manifest, error)
}

// Assembler writes a manifest to a compressed archive.
type Assembler interface {
	// Write produces the archive at dest atomically: either the complete
	// archive is present at dest on return, or dest is left untouched.
	Write(ctx context.Context, manifest Manifest, version Version, dest string) (ArchiveInfo, error)
}

// Packager runs the full build, version, archive sequence.
type Packager interface {
	Package(ctx context.Context, cfg Config) (Result, error)
	Plan(ctx context.Context, cfg Config) (Plan, error)
}
