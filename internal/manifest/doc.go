// Package manifest enumerates the files that make up a release archive.
//
// The builder is responsible for:
//   - Verifying every fixed release file exists and is a regular file
//   - Walking the content directories and collecting every file beneath them
//   - Mapping each source to its forward-slash name inside the archive
//   - Rejecting duplicate or escaping archive names
//
// Like the version resolver, the builder reads through the
// filesystem.FileSystemProvider interface so tests can run against an
// in-memory tree.
package manifest
