package checksum

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmo/mmopack/pkg/release"
)

var (
	// ErrChecksumMismatch indicates the archive digest differs from its sidecar.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrNoChecksumEntry indicates the sidecar has no line for the archive.
	ErrNoChecksumEntry = errors.New("no checksum entry")
)

// MismatchError reports both digests of a failed verification.
type MismatchError struct {
	Filename string
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrChecksumMismatch }

// Entry is one line of a sha256sum-format file.
type Entry struct {
	Hash     string
	Filename string
}

// SidecarPath returns the checksum file path for an archive.
func SidecarPath(archivePath string) string {
	return archivePath + release.ChecksumSuffix
}

// WriteSidecar hashes archivePath and writes "<hex>  <basename>\n" next to it.
// The sidecar is written to a temporary file and renamed so readers never
// observe a partial line.
func WriteSidecar(calc SHA256, archivePath string) (string, string, error) {
	sum, err := calc.CalculateFile(archivePath)
	if err != nil {
		return "", "", err
	}

	dest := SidecarPath(archivePath)
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("failed to create checksum file: %w", err)
	}
	tmpName := tmp.Name()

	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(archivePath))
	if _, err := io.WriteString(tmp, line); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", "", fmt.Errorf("failed to write checksum file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", "", fmt.Errorf("failed to close checksum file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", "", fmt.Errorf("failed to move checksum file into place: %w", err)
	}

	return dest, sum, nil
}

// ParseSidecar parses sha256sum output. Lines are "<hex>  <filename>"; a
// leading '*' on the filename (binary mode marker) is dropped. Malformed lines
// are skipped.
func ParseSidecar(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		hash, name, ok := strings.Cut(line, " ")
		if !ok || !isHexSHA256(hash) {
			continue
		}
		name = strings.TrimPrefix(strings.TrimLeft(name, " "), "*")
		if name == "" {
			continue
		}

		entries = append(entries, Entry{Hash: strings.ToLower(hash), Filename: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checksum file: %w", err)
	}

	return entries, nil
}

// VerifySidecar checks archivePath against its sidecar file.
func VerifySidecar(calc SHA256, archivePath string) (string, error) {
	f, err := os.Open(SidecarPath(archivePath))
	if err != nil {
		return "", err
	}
	defer f.Close()

	entries, err := ParseSidecar(f)
	if err != nil {
		return "", err
	}

	base := filepath.Base(archivePath)
	for _, e := range entries {
		if e.Filename != base {
			continue
		}
		got, err := calc.CalculateFile(archivePath)
		if err != nil {
			return "", err
		}
		if got != e.Hash {
			return got, &MismatchError{Filename: base, Expected: e.Hash, Got: got}
		}
		return got, nil
	}

	return "", fmt.Errorf("%s: %w", base, ErrNoChecksumEntry)
}

func isHexSHA256(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
