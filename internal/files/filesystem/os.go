package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

type osFile struct {
	path    string
	relPath string
	info    fs.FileInfo
}

func (f *osFile) Path() string         { return f.path }
func (f *osFile) RelativePath() string { return f.relPath }
func (f *osFile) Info() FileInfo       { return f.info }

type osDirectory struct {
	path string
}

func (d *osDirectory) Path() string { return d.path }

// Walk uses filepath.WalkDir: lexical order. Symbolic links to files are
// reported with the target's info; links to directories are reported but not
// followed.
func (d *osDirectory) Walk(fn func(File, error) error) error {
	return filepath.WalkDir(d.path, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fn(nil, walkErr)
		}

		info, err := entry.Info()
		if err != nil {
			return fn(nil, fmt.Errorf("failed to stat %s: %w", p, err))
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(p)
			if err != nil {
				return fn(nil, fmt.Errorf("failed to resolve link %s: %w", p, err))
			}
			if target.Mode().IsRegular() {
				info = target
			}
		}

		rel, err := filepath.Rel(d.path, p)
		if err != nil {
			return fn(nil, fmt.Errorf("%s is outside %s: %w", p, d.path, err))
		}

		return fn(&osFile{path: p, relPath: filepath.ToSlash(rel), info: info}, nil)
	})
}

// OSFileSystem reads source trees from disk.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Open(path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}
	return &osDirectory{path: filepath.Clean(path)}, nil
}

func (p *OSFileSystem) OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return f, nil
}

func (p *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (p *OSFileSystem) Stat(path string) (FileInfo, error) {
	return os.Stat(path)
}

var _ FileSystemProvider = (*OSFileSystem)(nil)
