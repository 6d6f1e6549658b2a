// Package files groups file access used while packaging a release.
//
// The filesystem sub-package provides the FileSystemProvider abstraction
// with an OS implementation and an in-memory one for tests. The version
// resolver, the manifest builder and the archive writer all read sources
// through it.
package files
