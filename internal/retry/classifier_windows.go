//go:build windows

package retry

import "syscall"

// Win32 error codes returned when another process holds the file open.
const (
	errorAccessDenied     syscall.Errno = 5
	errorSharingViolation syscall.Errno = 32
	errorLockViolation    syscall.Errno = 33
)

var transientErrnos = []syscall.Errno{
	errorAccessDenied,
	errorSharingViolation,
	errorLockViolation,
}
