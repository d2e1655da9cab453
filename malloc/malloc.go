package malloc

import (
	"fmt"
	"os"

	"github.com/JohnCGriffin/overflow"

	"github.com/wentworth/Malloc/internal/block"
)

// Alloc allocates size bytes and returns the block's payload offset together
// with a byte slice over the payload. A size of 0 returns the null pointer
// with no error. The payload slice aliases the region and is at least size
// bytes long; its extra capacity up to the block's footer is usable too.
//
// The search is first-fit across size classes in increasing order. When no
// free block fits, the heap grows by max(adjusted size, chunk size); only a
// failed grow yields ErrOutOfMemory.
func (h *Heap) Alloc(size int) (Ptr, []byte, error) {
	h.stats.AllocCalls++

	if size < 0 {
		return Null, nil, ErrBadSize
	}
	if size == 0 {
		return Null, nil, nil
	}
	if _, ok := overflow.Add(size, block.MinBlockSize+block.Alignment); !ok {
		return Null, nil, ErrOutOfMemory
	}
	asize := block.AdjustSize(size)

	bp := h.findFit(asize)
	if bp != Null {
		h.stats.FitHits++
	} else {
		if logAlloc {
			fmt.Fprintf(os.Stderr, "[MALLOC] no fit for %d bytes (adjusted %d), growing\n", size, asize)
		}
		grow := max(asize, h.chunk)
		var err error
		bp, err = h.extendHeap(grow / block.WordSize)
		if err != nil {
			if debugAlloc {
				debugLogf("Alloc(%d): grow by %d failed: %v", size, grow, err)
			}
			return Null, nil, ErrOutOfMemory
		}
	}

	h.place(bp, asize)
	h.stats.BytesAllocated += int64(block.SizeOf(h.data, bp))
	return bp, h.payload(bp), nil
}

// findFit returns the first free block that can hold asize bytes, scanning
// the candidate size classes in increasing order and each class list from
// its head. Returns Null when nothing fits.
func (h *Heap) findFit(asize int) int {
	for class := block.ClassIndex(asize); class < block.NumClasses; class++ {
		for bp := block.ReadSlot(h.data, class); bp != block.Null; bp = block.NextLink(h.data, bp) {
			if !block.Allocated(h.data, bp) && block.SizeOf(h.data, bp) >= asize {
				return bp
			}
		}
	}
	return Null
}

// place carves an allocated block of asize bytes out of the free block at
// bp. When the remainder can stand alone as a block it is split off, tagged
// free, and coalesced back into the lists; otherwise the whole block is
// consumed and the slack becomes internal fragmentation.
func (h *Heap) place(bp, asize int) {
	csize := block.SizeOf(h.data, bp)
	h.unlinkFree(bp)

	if csize-asize >= block.MinBlockSize {
		h.stats.SplitCount++
		block.SetTags(h.data, bp, asize, true)
		rest := block.NextPayload(h.data, bp)
		block.SetTags(h.data, rest, csize-asize, false)
		// The remainder may abut an older free block when bp came straight
		// from a heap extension.
		h.coalesce(rest)
	} else {
		block.SetTags(h.data, bp, csize, true)
	}
}

// extendHeap grows the region by the given number of words, rounded up to an
// even count so block sizes stay 8-byte aligned. The new bytes become one
// free block whose header overwrites the old epilogue; a fresh epilogue is
// written at the new end of the region. Returns the new block after merging
// with a free left neighbor.
func (h *Heap) extendHeap(words int) (int, error) {
	if words%2 != 0 {
		words++
	}
	size := words * block.WordSize

	old, err := h.region.Sbrk(size)
	if err != nil {
		return Null, err
	}
	h.data = h.region.Bytes()
	h.stats.GrowCalls++
	h.stats.GrowBytes += int64(size)

	bp := old
	block.SetTags(h.data, bp, size, false)
	block.PutWord(h.data, bp+size-block.WordSize, block.Pack(0, true))

	return h.coalesce(bp), nil
}
