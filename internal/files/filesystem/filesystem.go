package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is fs.FileInfo; size, mode and modification time of walked
// files end up in archive headers unchanged.
type FileInfo = fs.FileInfo

// File is one entry visited by Directory.Walk.
type File interface {
	// Path is the provider path of the entry, usable with OpenFile and Stat
	Path() string

	// RelativePath is slash-separated and relative to the walked directory.
	// The walked directory itself is ".".
	RelativePath() string

	Info() FileInfo
}

// Directory is a source tree that can be walked.
type Directory interface {
	Path() string

	// Walk visits the directory and everything beneath it in lexical order.
	// Returning an error from fn stops the walk and is returned by Walk.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider is the read-only view of a source tree used while
// resolving versions, collecting manifests and compressing entries.
// Errors for absent paths wrap fs.ErrNotExist.
type FileSystemProvider interface {
	// Open returns the directory at path for walking
	Open(path string) (Directory, error)

	// OpenFile opens a regular file for streaming. Callers must close it.
	OpenFile(path string) (io.ReadCloser, error)

	ReadFile(path string) ([]byte, error)

	Stat(path string) (FileInfo, error)
}
