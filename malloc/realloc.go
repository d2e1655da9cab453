package malloc

import (
	"github.com/JohnCGriffin/overflow"

	"github.com/wentworth/Malloc/internal/block"
)

// Realloc resizes the block at p to hold at least size bytes. A size of 0
// frees the block and returns the null pointer; a null p allocates fresh.
// When the adjusted size still fits in the current block, the same pointer
// comes back unchanged; the heap does not split a shrinking block in place.
// Otherwise a new block is allocated, the old payload is copied over, and
// the old block is freed. If that allocation fails the original block is
// left intact and valid.
func (h *Heap) Realloc(p Ptr, size int) (Ptr, []byte, error) {
	h.stats.ReallocCalls++

	if size < 0 {
		return Null, nil, ErrBadSize
	}
	if size == 0 {
		return Null, nil, h.Free(p)
	}
	if p == Null {
		return h.Alloc(size)
	}
	if err := h.checkLive(p); err != nil {
		return Null, nil, err
	}

	oldSize := block.SizeOf(h.data, p)
	if _, ok := overflow.Add(size, block.MinBlockSize+block.Alignment); !ok {
		return Null, nil, ErrOutOfMemory
	}
	if block.AdjustSize(size) <= oldSize {
		return p, h.payload(p), nil
	}

	np, payload, err := h.Alloc(size)
	if err != nil {
		return Null, nil, err
	}
	// Alloc may have grown the region; h.data is fresh here and p is still
	// a valid offset into it.
	copy(payload, h.data[p:p+oldSize-block.Overhead])
	if err := h.Free(p); err != nil {
		return np, payload, err
	}
	return np, payload, nil
}

// Calloc allocates count*elemSize bytes and zeroes the whole payload before
// returning it. A product that overflows can never be satisfied and reports
// ErrOutOfMemory; a zero product behaves like Alloc(0).
func (h *Heap) Calloc(count, elemSize int) (Ptr, []byte, error) {
	h.stats.CallocCalls++

	if count < 0 || elemSize < 0 {
		return Null, nil, ErrBadSize
	}
	bytes, ok := overflow.Mul(count, elemSize)
	if !ok {
		return Null, nil, ErrOutOfMemory
	}

	p, payload, err := h.Alloc(bytes)
	if err != nil || p == Null {
		return p, payload, err
	}
	// A reused free block still carries stale list links in its payload.
	clear(payload)
	return p, payload, nil
}
