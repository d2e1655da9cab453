package malloc

import "github.com/wentworth/Malloc/internal/block"

// Ptr is a payload offset into the heap region. 0 is the null pointer: no
// payload can live at offset zero because the region opens with the free-list
// table preamble.
type Ptr = int

// Null is the null Ptr.
const Null Ptr = block.Null

// Config tunes a Heap. The zero value of any field selects its default.
type Config struct {
	// ChunkSize is the minimum number of bytes the heap grows by when no
	// free block fits. Larger requests grow by the request itself. Rounded
	// up to the block alignment.
	ChunkSize int
}

// DefaultConfig is used when New receives a nil config.
var DefaultConfig = Config{
	ChunkSize: block.DefaultChunkSize,
}
