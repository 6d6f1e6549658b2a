package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/mmo/mmopack/internal/files/filesystem"
	"github.com/mmo/mmopack/internal/retry"
	"github.com/mmo/mmopack/pkg/release"
)

// Writer assembles manifests into DEFLATE-compressed ZIP archives.
// Sources are read through the filesystem provider; the archive itself is
// always written to the OS filesystem.
type Writer struct {
	fsProvider filesystem.FileSystemProvider
	logger     release.Logger
	executor   *retry.Executor
	level      int
}

// Option configures a Writer.
type Option func(*Writer)

// WithCompressionLevel sets the DEFLATE level (flate.BestSpeed..flate.BestCompression).
func WithCompressionLevel(level int) Option {
	return func(w *Writer) { w.level = level }
}

// NewWriter creates a Writer reading sources through fsProvider.
// Panics if fsProvider or logger is nil.
func NewWriter(fsProvider filesystem.FileSystemProvider, logger release.Logger, opts ...Option) *Writer {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	w := &Writer{
		fsProvider: fsProvider,
		logger:     logger,
		level:      flate.DefaultCompression,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.executor = retry.NewExecutor(retry.NewFileSystemErrorClassifier(), retry.NewRenameBackoff()).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("Archive is locked, retrying rename in %v (attempt %d): %v", delay, attempt+1, err)
		})
	return w
}

// Write produces the archive at dest. On error the destination is left as it
// was and the temporary file is removed.
func (w *Writer) Write(ctx context.Context, manifest release.Manifest, version release.Version, dest string) (info release.ArchiveInfo, err error) {
	dir := filepath.Dir(dest)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(dest), uuid.New()))

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return release.ArchiveInfo{}, fmt.Errorf("failed to create temporary archive in %s: %w", dir, err)
	}
	defer func() {
		if f != nil {
			f.Close()
		}
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	id := ReleaseID(version, manifest)
	if err := w.writeZip(ctx, f, manifest, Comment(id, version)); err != nil {
		return release.ArchiveInfo{}, err
	}

	if err := f.Sync(); err != nil {
		return release.ArchiveInfo{}, fmt.Errorf("failed to sync archive: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		return release.ArchiveInfo{}, fmt.Errorf("failed to stat archive: %w", err)
	}
	closeErr := f.Close()
	f = nil
	if closeErr != nil {
		return release.ArchiveInfo{}, fmt.Errorf("failed to close archive: %w", closeErr)
	}

	if err := ctx.Err(); err != nil {
		return release.ArchiveInfo{}, err
	}
	err = w.executor.Execute(ctx, func(ctx context.Context) error {
		return os.Rename(tmpPath, dest)
	})
	if err != nil {
		return release.ArchiveInfo{}, fmt.Errorf("failed to move archive into place: %w", err)
	}

	w.logger.Verbose("Wrote %d entries to %s (%d bytes)", len(manifest.Entries), dest, stat.Size())
	return release.ArchiveInfo{
		Path:      dest,
		ReleaseID: id,
		Entries:   len(manifest.Entries),
		Size:      stat.Size(),
	}, nil
}

func (w *Writer) writeZip(ctx context.Context, out io.Writer, manifest release.Manifest, comment string) error {
	zw := zip.NewWriter(out)
	level := w.level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	if err := zw.SetComment(comment); err != nil {
		return fmt.Errorf("failed to set archive comment: %w", err)
	}

	for _, entry := range manifest.Entries {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}
		if err := w.addEntry(zw, entry); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func (w *Writer) addEntry(zw *zip.Writer, entry release.ManifestEntry) error {
	header := &zip.FileHeader{
		Name:     entry.ArchivePath,
		Method:   zip.Deflate,
		Modified: entry.ModTime,
	}
	header.SetMode(entry.Mode.Perm())

	src, err := w.fsProvider.OpenFile(entry.SourcePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", entry.SourcePath, err)
	}
	defer src.Close()

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", entry.ArchivePath, err)
	}
	n, err := io.Copy(dst, src)
	if err != nil {
		return fmt.Errorf("failed to compress %s: %w", entry.SourcePath, err)
	}
	if n != entry.Size {
		w.logger.Verbose("%s changed size during packaging (%d -> %d bytes)", entry.SourcePath, entry.Size, n)
	}
	return nil
}

var _ release.Assembler = (*Writer)(nil)
