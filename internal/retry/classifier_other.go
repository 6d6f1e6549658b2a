//go:build !unix && !windows

package retry

import "syscall"

var transientErrnos []syscall.Errno
