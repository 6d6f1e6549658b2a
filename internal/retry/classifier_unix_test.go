//go:build unix

package retry

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileSystemErrorClassifier_Unix(t *testing.T) {
	c := NewFileSystemErrorClassifier()

	tests := []struct {
		errno     syscall.Errno
		transient bool
	}{
		{syscall.EBUSY, true},
		{syscall.ETXTBSY, true},
		{syscall.ENOENT, false},
		{syscall.EACCES, false},
		{syscall.ENOSPC, false},
		{syscall.EXDEV, false},
	}

	for _, tt := range tests {
		t.Run(tt.errno.Error(), func(t *testing.T) {
			err := &os.LinkError{Op: "rename", Old: "a.tmp", New: "a.zip", Err: tt.errno}
			assert.Equal(t, tt.transient, c.IsTransient(err))
		})
	}
}
