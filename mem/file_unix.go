//go:build linux || darwin

package mem

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// CreateFile creates (or truncates) a file-backed region at path. The region
// starts empty; the first Sbrk establishes the mapping.
func CreateFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// OpenFile maps an existing region file read-write without changing its
// contents, so a previously written heap image can be inspected in place.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sz := st.Size()
	if sz == 0 {
		return &File{f: f}, nil
	}

	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		int(sz),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mem: mmap failed: %w", err)
	}

	return &File{f: f, data: data, size: sz}, nil
}

// Sbrk grows the backing file by n zero bytes and remaps it, returning the
// offset where the new bytes begin. On failure the old mapping is restored
// and the region is unchanged.
func (r *File) Sbrk(n int) (int, error) {
	if r == nil || r.f == nil {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, ErrBadGrow
	}

	old := r.size
	newSize := old + int64(n)

	if r.data != nil {
		if err := syscall.Munmap(r.data); err != nil {
			return 0, fmt.Errorf("mem: unmap before grow: %w", err)
		}
		r.data = nil
	}

	// Truncate extends the file with zeros.
	if err := r.f.Truncate(newSize); err != nil {
		r.remap(old)
		return 0, fmt.Errorf("mem: extend file: %w", err)
	}

	data, err := syscall.Mmap(
		int(r.f.Fd()),
		0,
		int(newSize),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	if err != nil {
		r.remap(old)
		return 0, fmt.Errorf("mem: remap after grow: %w", err)
	}

	r.data = data
	r.size = newSize
	return int(old), nil
}

// remap restores a mapping of the given size after a failed grow. A zero
// size leaves the region unmapped.
func (r *File) remap(size int64) {
	if size == 0 {
		r.size = 0
		return
	}
	data, _ := syscall.Mmap(
		int(r.f.Fd()),
		0,
		int(size),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED,
	)
	r.data = data
	r.size = size
}

// Sync flushes the mapped region and the file metadata needed to reach the
// data, so the on-disk image is complete.
func (r *File) Sync() error {
	if r == nil || r.f == nil {
		return ErrClosed
	}
	if r.data != nil {
		if err := unix.Msync(r.data, unix.MS_SYNC); err != nil {
			return fmt.Errorf("mem: msync: %w", err)
		}
	}
	return fdatasync(int(r.f.Fd()))
}

// Close unmaps the region and closes the backing file.
func (r *File) Close() error {
	var err error
	if r.data != nil {
		_ = syscall.Munmap(r.data)
		r.data = nil
	}
	if r.f != nil {
		err = r.f.Close()
		r.f = nil
	}
	r.size = 0
	return err
}
