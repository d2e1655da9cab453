//go:build linux

package mem

import "golang.org/x/sys/unix"

// fdatasync flushes file data without forcing a full metadata flush.
func fdatasync(fd int) error {
	return unix.Fdatasync(fd)
}
