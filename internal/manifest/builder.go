package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/mmo/mmopack/internal/files/filesystem"
	"github.com/mmo/mmopack/pkg/release"
)

// Builder collects manifest entries from a source tree.
// Builder is safe for concurrent use by multiple goroutines as long as
// the provided fsProvider is also thread-safe.
type Builder struct {
	fsProvider filesystem.FileSystemProvider
}

// NewBuilder creates a manifest builder backed by the OS filesystem.
func NewBuilder() *Builder {
	return &Builder{fsProvider: filesystem.NewOSFileSystem()}
}

// NewBuilderWithFS creates a manifest builder with a custom filesystem provider.
// Panics if fsProvider is nil.
func NewBuilderWithFS(fsProvider filesystem.FileSystemProvider) *Builder {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Builder{fsProvider: fsProvider}
}

// Collect returns the fixed files in configuration order followed by the
// contents of each walked directory. Entries within one walk are sorted by
// archive path so repeated runs over the same tree produce the same archive.
func (b *Builder) Collect(cfg release.Config) (release.Manifest, error) {
	var entries []release.ManifestEntry
	seen := make(map[string]string)

	add := func(e release.ManifestEntry) error {
		if prev, dup := seen[e.ArchivePath]; dup {
			return fmt.Errorf("archive path %q used by both %s and %s: %w", e.ArchivePath, prev, e.SourcePath, release.ErrInvalidConfig)
		}
		seen[e.ArchivePath] = e.SourcePath
		entries = append(entries, e)
		return nil
	}

	for _, f := range cfg.Files {
		entry, err := b.fixedEntry(cfg, f)
		if err != nil {
			return release.Manifest{}, err
		}
		if err := add(entry); err != nil {
			return release.Manifest{}, err
		}
	}

	for _, w := range cfg.Walks {
		walked, err := b.walkEntries(cfg, w)
		if err != nil {
			return release.Manifest{}, err
		}
		for _, e := range walked {
			if err := add(e); err != nil {
				return release.Manifest{}, err
			}
		}
	}

	return release.Manifest{Entries: entries}, nil
}

func (b *Builder) fixedEntry(cfg release.Config, f release.FileMapping) (release.ManifestEntry, error) {
	target, err := release.CleanArchivePath(f.Target)
	if err != nil {
		return release.ManifestEntry{}, err
	}

	source := cfg.Resolve(f.Source)
	info, err := b.fsProvider.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return release.ManifestEntry{}, &release.MissingFileError{Path: source, Kind: "file"}
		}
		return release.ManifestEntry{}, fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if !info.Mode().IsRegular() {
		return release.ManifestEntry{}, &release.MissingFileError{
			Path: source,
			Kind: "file",
			Err:  fmt.Errorf("not a regular file (mode %s)", info.Mode()),
		}
	}

	return release.ManifestEntry{
		SourcePath:  source,
		ArchivePath: target,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Mode:        info.Mode(),
	}, nil
}

func (b *Builder) walkEntries(cfg release.Config, w release.WalkMapping) ([]release.ManifestEntry, error) {
	dirPath := cfg.Resolve(w.Dir)
	root := cfg.WalkRoot(w)

	info, err := b.fsProvider.Stat(dirPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &release.MissingFileError{Path: dirPath, Kind: "directory"}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dirPath, err)
	}
	if !info.IsDir() {
		return nil, &release.MissingFileError{Path: dirPath, Kind: "directory", Err: errors.New("not a directory")}
	}

	prefix, err := filepath.Rel(root, dirPath)
	if err != nil {
		return nil, fmt.Errorf("walk directory %s is not under root %s: %w", dirPath, root, release.ErrInvalidConfig)
	}

	dir, err := b.fsProvider.Open(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var entries []release.ManifestEntry
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		fi := file.Info()
		// Directories are implied by the entries beneath them.
		if fi.IsDir() || !fi.Mode().IsRegular() {
			return nil
		}

		archivePath, err := release.CleanArchivePath(filepath.ToSlash(filepath.Join(prefix, file.RelativePath())))
		if err != nil {
			return fmt.Errorf("file %s: %w", file.Path(), err)
		}

		entries = append(entries, release.ManifestEntry{
			SourcePath:  file.Path(),
			ArchivePath: archivePath,
			Size:        fi.Size(),
			ModTime:     fi.ModTime(),
			Mode:        fi.Mode(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ArchivePath < entries[j].ArchivePath
	})
	return entries, nil
}

// Verify Builder implements the interface at compile time
var _ release.ManifestBuilder = (*Builder)(nil)
