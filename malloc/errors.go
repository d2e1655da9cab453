package malloc

import "errors"

var (
	// ErrOutOfMemory indicates that no free block was large enough and the
	// region could not be extended.
	ErrOutOfMemory = errors.New("malloc: out of memory")

	// ErrBadSize indicates a negative requested size.
	ErrBadSize = errors.New("malloc: bad size")

	// ErrBadPtr indicates a pointer that cannot name a block: out of the
	// region's bounds, misaligned, or framed by nonsense tags.
	ErrBadPtr = errors.New("malloc: bad pointer")

	// ErrNotAllocated indicates a free or resize of a block that is not
	// currently allocated.
	ErrNotAllocated = errors.New("malloc: block is not allocated")

	// ErrBadRegion indicates the region handed to New was not empty.
	ErrBadRegion = errors.New("malloc: region must be empty")
)
