package malloc

// Allocator is the allocation surface shared by the heap and its wrappers.
//
// Implementations:
//   - Heap: the segregated-fit allocator with free-list reuse
//   - NoFree: append-only wrapper whose Free is a recorded no-op
//
// The interface lets trace replay and tests swap allocation strategies
// without caring which one is underneath.
type Allocator interface {
	// Alloc allocates size bytes and returns the block's payload offset and
	// a slice over the payload. Size 0 returns the null pointer, nil, nil.
	Alloc(size int) (Ptr, []byte, error)

	// Free releases the block at p. Freeing the null pointer is a no-op.
	Free(p Ptr) error

	// Realloc resizes the block at p, possibly moving it. The returned
	// payload preserves the old contents up to the smaller of the two
	// sizes. A failed resize leaves the original block intact.
	Realloc(p Ptr, size int) (Ptr, []byte, error)

	// Calloc allocates count*elemSize bytes, zero-filled.
	Calloc(count, elemSize int) (Ptr, []byte, error)
}
