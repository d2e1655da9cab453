//go:build !linux && !darwin

package mem

import (
	"fmt"
	"io"
	"os"
)

// CreateFile creates (or truncates) a file-backed region at path. On
// platforms without the mmap path the contents live in a heap buffer and are
// written through on Sync.
func CreateFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// OpenFile loads an existing region file into memory.
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

	buf := make([]byte, sz)
	if sz > 0 {
		if _, err := io.ReadFull(f, buf); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return &File{f: f, data: buf, size: sz}, nil
}

// Sbrk grows the backing file by n zero bytes and extends the in-memory
// buffer to match, returning the offset where the new bytes begin.
func (r *File) Sbrk(n int) (int, error) {
	if r == nil || r.f == nil {
		return 0, ErrClosed
	}
	if n <= 0 {
		return 0, ErrBadGrow
	}

	old := r.size
	newSize := old + int64(n)

	if err := r.f.Truncate(newSize); err != nil {
		return 0, fmt.Errorf("mem: extend file: %w", err)
	}

	newData := make([]byte, newSize)
	copy(newData, r.data)
	r.data = newData
	r.size = newSize
	return int(old), nil
}

// Sync writes the buffered region back to the file and flushes it.
func (r *File) Sync() error {
	if r == nil || r.f == nil {
		return ErrClosed
	}
	if _, err := r.f.WriteAt(r.data, 0); err != nil {
		return fmt.Errorf("mem: write back: %w", err)
	}
	return r.f.Sync()
}

// Close writes any buffered contents back and closes the file.
func (r *File) Close() error {
	if r == nil || r.f == nil {
		return nil
	}
	err := r.Sync()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.f = nil
	r.data = nil
	r.size = 0
	return err
}
