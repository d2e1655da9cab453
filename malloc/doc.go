// Package malloc implements a segregated-fit heap allocator over a growable
// linear memory region.
//
// # Overview
//
// The allocator carves a mem.Region into blocks framed by boundary tags: a
// header word before each payload and a matching footer word at the block's
// end, both packing the block size with an allocated bit. Free blocks are
// threaded into doubly linked lists segregated by size class, with the list
// heads stored in a table block at the base of the region, so the whole heap
// state lives inside the region itself and survives in a heap image file.
//
// # Heap
//
// The core type is Heap, created over an empty region:
//
//	r := mem.NewBuffer(0)
//	h, err := malloc.New(r, nil)
//	if err != nil {
//	    return err
//	}
//
//	p, buf, err := h.Alloc(256)
//	if err != nil {
//	    return err
//	}
//
//	// Write into buf...
//	copy(buf, payload)
//
//	// Later, release the block
//	err = h.Free(p)
//
// Pointers are byte offsets into the region, with 0 as the null pointer.
// Alloc also returns the payload as a slice aliased into the region; on
// remapping regions the slice is invalidated by a later grow, so callers
// keep the offset and re-derive views when they need them.
//
// # Operations
//
//   - Alloc(size): first-fit search across size classes, splitting the found
//     block when the remainder can stand alone, growing the region otherwise
//   - Free(p): clears the allocated bit and eagerly merges with free physical
//     neighbors, so two adjacent free blocks never exist
//   - Realloc(p, size): returns the same block when the adjusted size still
//     fits, otherwise allocates, copies, and frees; the original block is
//     untouched if the new allocation fails
//   - Calloc(count, elemSize): overflow-checked product, zero-filled payload
//
// # Size Classes
//
// Free lists are segregated into 18 classes by total block size, measured in
// 8-byte units:
//
//	3, 4, 5, 6, 7, 8, 9, 10, 12, 16, 32, 64, 128, 256, 512, 1024, 2048, ∞
//
// Small blocks get a class per size so the common case is an exact-fit pop
// from the head; larger classes double. Lists are LIFO and unordered within
// a class.
//
// # Verification
//
// The companion package malloc/verify walks a heap image and checks every
// structural invariant (sentinel framing, tag agreement, list symmetry,
// class membership, free counts). Heap.Check runs it against the live
// region. The checker is read-only and is not part of the allocation path.
//
// # Thread Safety
//
// Heap instances are not thread-safe. Callers must synchronize access
// externally; the allocator assumes a single logical caller.
package malloc
