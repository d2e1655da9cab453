// Package mem provides the raw memory regions the allocator carves blocks
// from. A region is a single contiguous byte range addressed by offsets from
// zero. It only ever grows: Sbrk extends the range and hands back the offset
// where the new bytes begin, and the allocator does the rest.
//
// Two providers are included. Buffer is an in-memory region with a fixed
// capacity reserved up front, so growth never moves the backing array and
// offsets taken before a grow stay valid afterwards. File is backed by a real
// file, memory-mapped where the platform supports it, so a heap image can be
// inspected or replayed after the process exits.
package mem

// Region is a growable linear byte range. Offsets into the region are stable:
// implementations extend in place or remap, but never shuffle contents.
type Region interface {
	// Sbrk grows the region by n bytes, zero-filled, and returns the offset
	// of the first new byte. n must be positive.
	Sbrk(n int) (int, error)

	// Bytes returns the current backing slice spanning [0, Size()). The
	// slice may be replaced by a later Sbrk on remapping providers; callers
	// re-fetch after growing.
	Bytes() []byte

	// Size returns the current extent of the region in bytes.
	Size() int
}

// DefaultBufferCap is the reservation for an in-memory Buffer region when no
// capacity is given. Matches the 20 MiB ceiling traditionally used by sbrk
// simulators for allocator workloads.
const DefaultBufferCap = 20 << 20

// Buffer is an in-memory Region. The full capacity is reserved at creation
// and Sbrk reslices into it, so the backing array never moves and payload
// slices handed out by the allocator survive growth.
type Buffer struct {
	data []byte
	max  int
}

// NewBuffer returns an empty in-memory region that can grow to max bytes.
// A max of 0 selects DefaultBufferCap.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultBufferCap
	}
	return &Buffer{
		data: make([]byte, 0, max),
		max:  max,
	}
}

// Sbrk extends the buffer by n zero bytes and returns the offset where they
// begin. Fails with ErrRegionFull once the reserved capacity is exhausted,
// leaving the region unchanged.
func (b *Buffer) Sbrk(n int) (int, error) {
	if n <= 0 {
		return 0, ErrBadGrow
	}
	old := len(b.data)
	if old+n > b.max {
		return 0, ErrRegionFull
	}
	b.data = b.data[:old+n]
	return old, nil
}

// Bytes returns the live extent of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Size returns the current extent in bytes.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Cap returns the maximum size this buffer can grow to.
func (b *Buffer) Cap() int {
	return b.max
}

var _ Region = (*Buffer)(nil)
