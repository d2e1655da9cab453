//go:build darwin

package mem

import "golang.org/x/sys/unix"

// fdatasync flushes file data. macOS has no fdatasync; F_FULLFSYNC pushes
// the write through the drive cache for durability across power loss.
func fdatasync(fd int) error {
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_FULLFSYNC, 0); err == nil {
		return nil
	}
	return unix.Fsync(fd)
}
