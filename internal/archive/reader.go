package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/mmo/mmopack/pkg/release"
)

// ErrManifestMismatch indicates an archive's entries differ from the expected manifest.
var ErrManifestMismatch = errors.New("archive does not match manifest")

// Entry describes one file stored in an archive.
type Entry struct {
	Name     string
	Size     uint64
	Modified time.Time
	Mode     fs.FileMode
	CRC32    uint32
}

// Contents is the listing of an archive.
type Contents struct {
	Entries []Entry

	// Version and ReleaseID are empty when the archive was not written by Writer
	Version   string
	ReleaseID uuid.UUID
	Comment   string
}

// Names returns the entry names in archive order.
func (c Contents) Names() []string {
	names := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		names[i] = e.Name
	}
	return names
}

// Check lists the archive and decompresses every entry, which validates
// each entry's CRC-32.
func Check(path string) (Contents, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Contents{}, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := checkEntry(f); err != nil {
			return Contents{}, fmt.Errorf("archive %s: %w", path, err)
		}
	}
	return contentsOf(&r.Reader), nil
}

// Match checks that the archive holds exactly the manifest's entries, in
// order and with matching sizes.
func (c Contents) Match(manifest release.Manifest) error {
	if len(c.Entries) != len(manifest.Entries) {
		return fmt.Errorf("archive has %d entries, expected %d: %w", len(c.Entries), len(manifest.Entries), ErrManifestMismatch)
	}
	for i, want := range manifest.Entries {
		got := c.Entries[i]
		if got.Name != want.ArchivePath {
			return fmt.Errorf("entry %d is %q, expected %q: %w", i, got.Name, want.ArchivePath, ErrManifestMismatch)
		}
		if got.Size != uint64(want.Size) {
			return fmt.Errorf("entry %q is %d bytes, expected %d: %w", got.Name, got.Size, want.Size, ErrManifestMismatch)
		}
	}
	return nil
}

func checkEntry(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("entry %s is corrupt: %w", f.Name, err)
	}
	return nil
}

func contentsOf(r *zip.Reader) Contents {
	c := Contents{Comment: r.Comment}
	c.Version, c.ReleaseID, _ = ParseComment(r.Comment)
	for _, f := range r.File {
		c.Entries = append(c.Entries, Entry{
			Name:     f.Name,
			Size:     f.UncompressedSize64,
			Modified: f.Modified,
			Mode:     f.Mode(),
			CRC32:    f.CRC32,
		})
	}
	return c
}
