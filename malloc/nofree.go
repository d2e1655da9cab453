package malloc

// NoFree is an append-only wrapper around a Heap. Free calls are swallowed
// and counted rather than forwarded, so the heap only ever grows and no
// block is ever reused. Useful for replaying workloads where recycling would
// perturb the layout under study, and for measuring how much memory a trace
// consumes without reuse.
type NoFree struct {
	h *Heap

	// Skipped counts the Free calls (and realloc-abandoned blocks) that
	// were swallowed instead of released.
	Skipped int
}

// NewNoFree wraps a heap in append-only mode.
func NewNoFree(h *Heap) *NoFree {
	return &NoFree{h: h}
}

var _ Allocator = (*NoFree)(nil)

// Heap returns the wrapped heap.
func (nf *NoFree) Heap() *Heap {
	return nf.h
}

// Alloc forwards to the wrapped heap.
func (nf *NoFree) Alloc(size int) (Ptr, []byte, error) {
	return nf.h.Alloc(size)
}

// Free is a recorded no-op: the block stays allocated forever.
func (nf *NoFree) Free(p Ptr) error {
	if p == Null {
		return nil
	}
	if err := nf.h.checkLive(p); err != nil {
		return err
	}
	nf.Skipped++
	return nil
}

// Realloc keeps the block in place when the new size still fits its payload.
// Otherwise it allocates fresh, copies, and abandons the old block where it
// sits instead of freeing it.
func (nf *NoFree) Realloc(p Ptr, size int) (Ptr, []byte, error) {
	if size < 0 {
		return Null, nil, ErrBadSize
	}
	if size == 0 {
		return Null, nil, nf.Free(p)
	}
	if p == Null {
		return nf.h.Alloc(size)
	}

	old, err := nf.h.Payload(p)
	if err != nil {
		return Null, nil, err
	}
	if size <= len(old) {
		return p, old, nil
	}

	np, payload, err := nf.h.Alloc(size)
	if err != nil {
		return Null, nil, err
	}
	// Re-derive the old view: the Alloc may have grown a remapping region.
	old, err = nf.h.Payload(p)
	if err != nil {
		return Null, nil, err
	}
	copy(payload, old)
	nf.Skipped++
	return np, payload, nil
}

// Calloc forwards to the wrapped heap.
func (nf *NoFree) Calloc(count, elemSize int) (Ptr, []byte, error) {
	return nf.h.Calloc(count, elemSize)
}
