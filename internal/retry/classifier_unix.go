//go:build unix

package retry

import "syscall"

var transientErrnos = []syscall.Errno{
	syscall.EBUSY,
	syscall.ETXTBSY,
	syscall.EAGAIN,
	syscall.EINTR,
}
