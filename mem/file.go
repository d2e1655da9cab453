package mem

import "os"

// File is a file-backed Region. On Linux and macOS the file is memory-mapped
// read-write and growth remaps after extending the file; elsewhere the file
// contents are held in a heap buffer and written through on Sync. Either way
// the on-disk bytes are a complete heap image that can be reopened later.
type File struct {
	f    *os.File
	data []byte
	size int64
}

// Bytes returns the current mapping. The slice is replaced by Sbrk; callers
// re-fetch after growing.
func (r *File) Bytes() []byte {
	return r.data
}

// Size returns the current extent of the region in bytes.
func (r *File) Size() int {
	return int(r.size)
}

// Path returns the name of the backing file.
func (r *File) Path() string {
	if r.f == nil {
		return ""
	}
	return r.f.Name()
}

var _ Region = (*File)(nil)
