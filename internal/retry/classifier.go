package retry

import (
	"errors"
	"syscall"

	"github.com/mmo/mmopack/pkg/release"
)

// FileSystemErrorClassifier treats lock and sharing errors as transient.
// Missing files, permission problems on POSIX systems and full disks are fatal.
type FileSystemErrorClassifier struct {
	transient []syscall.Errno
}

// NewFileSystemErrorClassifier creates a classifier for the current platform.
func NewFileSystemErrorClassifier() *FileSystemErrorClassifier {
	return &FileSystemErrorClassifier{transient: transientErrnos}
}

// IsTransient reports whether err wraps one of the platform's lock errors.
func (c *FileSystemErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	for _, t := range c.transient {
		if errno == t {
			return true
		}
	}
	return false
}

var _ release.ErrorClassifier = (*FileSystemErrorClassifier)(nil)
