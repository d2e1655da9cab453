package malloc

import "github.com/wentworth/Malloc/internal/block"

// Free releases the block at p. Freeing the null pointer is a no-op.
// Detectably bad pointers (out of bounds, misaligned, mangled tags, or a
// block that is not allocated) are rejected with an error and the heap is
// left untouched; pointers that dodge those checks are the caller's problem.
func (h *Heap) Free(p Ptr) error {
	if p == Null {
		return nil
	}
	if err := h.checkLive(p); err != nil {
		return err
	}

	h.stats.FreeCalls++
	size := block.SizeOf(h.data, p)
	h.stats.BytesFreed += int64(size)

	block.SetTags(h.data, p, size, false)
	h.coalesce(p)
	return nil
}

// coalesce merges the free block at bp with whichever physical neighbors are
// free, files the result in its size class, and returns its payload offset
// (which moves left when the previous block is absorbed). Merging is eager:
// after every free or extension the heap never holds two adjacent free
// blocks. The permanently allocated prologue and epilogue sentinels bound
// the merge on both sides.
func (h *Heap) coalesce(bp int) int {
	prevFree := !block.TagAllocated(block.ReadWord(h.data, bp-block.Overhead))
	next := block.NextPayload(h.data, bp)
	nextFree := !block.Allocated(h.data, next)
	size := block.SizeOf(h.data, bp)

	switch {
	case !prevFree && !nextFree:
		h.stats.CoalesceNone++

	case !prevFree && nextFree:
		h.stats.CoalesceRight++
		h.unlinkFree(next)
		size += block.SizeOf(h.data, next)
		block.SetTags(h.data, bp, size, false)

	case prevFree && !nextFree:
		h.stats.CoalesceLeft++
		prev := block.PrevPayload(h.data, bp)
		h.unlinkFree(prev)
		size += block.SizeOf(h.data, prev)
		bp = prev
		block.SetTags(h.data, bp, size, false)

	default:
		h.stats.CoalesceBoth++
		prev := block.PrevPayload(h.data, bp)
		h.unlinkFree(prev)
		h.unlinkFree(next)
		size += block.SizeOf(h.data, prev) + block.SizeOf(h.data, next)
		bp = prev
		block.SetTags(h.data, bp, size, false)
	}

	h.pushFree(bp)
	return bp
}
