package malloc

import "github.com/wentworth/Malloc/internal/block"

// Segregated free-list maintenance. Each size class has one doubly linked
// list of free blocks, LIFO, unordered within the class. The head of each
// list lives in the table block at the base of the region; the links live in
// the first sixteen bytes of each free payload. Both operations are O(1).
//
// Classification always uses the block's current size, so callers must push
// or unlink while the header still reflects the size the block was filed
// under. Coalescing unlinks neighbors before rewriting any tags for exactly
// this reason.

// pushFree files the free block at bp at the head of its size class.
// Pushing the block that is already the head is a no-op, which makes the
// operation idempotent across redundant coalesce paths.
func (h *Heap) pushFree(bp int) {
	class := block.ClassIndex(block.SizeOf(h.data, bp))
	head := block.ReadSlot(h.data, class)
	if bp == head {
		return
	}
	block.SetPrevLink(h.data, bp, block.Null)
	block.SetNextLink(h.data, bp, head)
	if head != block.Null {
		block.SetPrevLink(h.data, head, bp)
	}
	block.PutSlot(h.data, class, bp)
}

// unlinkFree splices the free block at bp out of its size class list. When
// bp is the head, the class slot is advanced to its successor.
func (h *Heap) unlinkFree(bp int) {
	prev := block.PrevLink(h.data, bp)
	next := block.NextLink(h.data, bp)
	if prev != block.Null {
		block.SetNextLink(h.data, prev, next)
	} else {
		class := block.ClassIndex(block.SizeOf(h.data, bp))
		block.PutSlot(h.data, class, next)
	}
	if next != block.Null {
		block.SetPrevLink(h.data, next, prev)
	}
}
